package companionserver

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	apiv1 "github.com/hristov111/companion/pkg/apis/companion/v1"
	"github.com/hristov111/companion/pkg/companionserver/metrics"
)

// jsonResetConversation clears the transient session state for one
// conversation. Resetting a conversation that does not exist still succeeds.
func (s *Server) jsonResetConversation(w http.ResponseWriter, req *http.Request) {
	var request apiv1.ConversationRequest
	if err := decodeJSONBody(req, &request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	conversationID, err := uuid.Parse(request.ConversationID)
	if err != nil {
		metrics.RecordValidationFailure("conversation_reset")
		failureResponse(w, http.StatusUnprocessableEntity, "Invalid conversation ID format")
		return
	}

	if err := s.sessions.Clear(req.Context(), conversationID); err != nil {
		log.WithError(err).WithField("conversationID", conversationID).Error("error resetting conversation")
		failureResponse(w, http.StatusInternalServerError, "Failed to reset conversation")
		return
	}

	metrics.RecordConversationReset()
	log.WithField("conversationID", conversationID).Info("conversation reset")

	RespondWithJSON(http.StatusOK, w, apiv1.OperationResult{
		Success:        true,
		ConversationID: conversationID,
	})
}
