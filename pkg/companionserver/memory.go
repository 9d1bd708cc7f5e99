package companionserver

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	apiv1 "github.com/hristov111/companion/pkg/apis/companion/v1"
	"github.com/hristov111/companion/pkg/companionserver/metrics"
)

// jsonClearMemory purges the long-term memory of one conversation. The
// session transcript is untouched; use the reset endpoint for that.
func (s *Server) jsonClearMemory(w http.ResponseWriter, req *http.Request) {
	var request apiv1.ConversationRequest
	if err := decodeJSONBody(req, &request); err != nil {
		failureResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	conversationID, err := uuid.Parse(request.ConversationID)
	if err != nil {
		metrics.RecordValidationFailure("memory_clear")
		failureResponse(w, http.StatusUnprocessableEntity, "Invalid conversation ID format")
		return
	}

	if err := s.memory.Purge(req.Context(), conversationID); err != nil {
		log.WithError(err).WithField("conversationID", conversationID).Error("error clearing memory")
		failureResponse(w, http.StatusInternalServerError, "Failed to clear memory")
		return
	}

	metrics.RecordMemoryClear()
	log.WithField("conversationID", conversationID).Info("memory cleared")

	RespondWithJSON(http.StatusOK, w, apiv1.OperationResult{
		Success:        true,
		ConversationID: conversationID,
	})
}
