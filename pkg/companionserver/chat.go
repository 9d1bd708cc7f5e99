package companionserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/hristov111/companion/pkg/ai"
	apiv1 "github.com/hristov111/companion/pkg/apis/companion/v1"
	"github.com/hristov111/companion/pkg/companionserver/metrics"
)

const (
	// MaxChatMessageBytes is the maximum accepted chat message size.
	MaxChatMessageBytes = 8192

	defaultHistoryWindow = 20
	memoryRecallLimit    = 4

	baseInstructions = "You are a helpful AI companion. Answer conversationally and remember details the user has shared."
)

// validateChatRequest checks a decoded chat request and resolves its
// conversation identifier. The returned message is trimmed.
func validateChatRequest(request apiv1.ChatRequest) (string, uuid.UUID, error) {
	message := strings.TrimSpace(request.Message)
	if message == "" {
		return "", uuid.Nil, errors.New("Message cannot be empty")
	}
	if len(message) > MaxChatMessageBytes {
		return "", uuid.Nil, errors.Errorf("Message exceeds maximum length of %d bytes", MaxChatMessageBytes)
	}

	if request.ConversationID == "" {
		return message, uuid.New(), nil
	}

	conversationID, err := uuid.Parse(request.ConversationID)
	if err != nil {
		return "", uuid.Nil, errors.New("Invalid conversation ID format")
	}

	return message, conversationID, nil
}

func (s *Server) jsonChat(w http.ResponseWriter, req *http.Request) {
	var request apiv1.ChatRequest
	if err := decodeJSONBody(req, &request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	message, conversationID, err := validateChatRequest(request)
	if err != nil {
		metrics.RecordChatRequest(metrics.OutcomeRejected)
		metrics.RecordValidationFailure("chat")
		failureResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	reply, err := s.completeChat(req.Context(), conversationID, message)
	if err != nil {
		metrics.RecordChatRequest(metrics.OutcomeError)
		log.WithError(err).WithField("conversationID", conversationID).Error("chat completion failed")
		failureResponse(w, http.StatusBadGateway, "Chat completion failed")
		return
	}

	metrics.RecordChatRequest(metrics.OutcomeOK)
	RespondWithJSON(http.StatusOK, w, apiv1.ChatResponse{
		Reply:          reply,
		ConversationID: conversationID,
	})
}

// completeChat runs the shared chat pipeline: recall memories, replay the
// session window, call the model, then record the exchange.
func (s *Server) completeChat(ctx context.Context, conversationID uuid.UUID, message string) (string, error) {
	history, err := s.sessions.History(ctx, conversationID, s.historyWindow)
	if err != nil {
		return "", errors.Wrap(err, "could not load session history")
	}

	memories, err := s.memory.Recall(ctx, conversationID, message, memoryRecallLimit)
	if err != nil {
		// Recall is an enrichment; answer without it rather than failing.
		log.WithError(err).WithField("conversationID", conversationID).Warn("memory recall failed")
		memories = nil
	}

	start := time.Now()
	reply, err := s.llm.Chat(ctx, buildInstructions(memories), history, message)
	metrics.ObserveLLMRequest(time.Since(start))
	if err != nil {
		return "", errors.Wrap(err, "chat completion call failed")
	}

	if err := s.sessions.AppendTurn(ctx, conversationID, ai.RoleUser, message); err != nil {
		return "", errors.Wrap(err, "could not record user turn")
	}
	if err := s.sessions.AppendTurn(ctx, conversationID, ai.RoleAssistant, reply); err != nil {
		return "", errors.Wrap(err, "could not record assistant turn")
	}

	exchange := fmt.Sprintf("User: %s\nAssistant: %s", message, reply)
	if err := s.memory.Remember(ctx, conversationID, exchange); err != nil {
		// The reply already happened; indexing failures only degrade recall.
		log.WithError(err).WithField("conversationID", conversationID).Warn("could not index exchange into memory")
	}

	return reply, nil
}

func buildInstructions(memories []string) string {
	if len(memories) == 0 {
		return baseInstructions
	}

	var b strings.Builder
	b.WriteString(baseInstructions)
	b.WriteString("\n\nRelevant memories from earlier conversations:\n")
	for _, m := range memories {
		b.WriteString("- ")
		b.WriteString(m)
		b.WriteString("\n")
	}
	return b.String()
}
