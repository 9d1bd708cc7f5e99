package companionserver

import (
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	apiv1 "github.com/hristov111/companion/pkg/apis/companion/v1"
	"github.com/hristov111/companion/pkg/companionserver/metrics"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now - in production you might want to be more restrictive
		return true
	},
}

// chatWebSocket serves the streaming chat surface. Each client frame is a
// ChatRequest; replies and validation failures are sent back as frames, so
// a rejected message does not close the socket.
func (s *Server) chatWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, req, nil)
	if err != nil {
		log.WithError(err).Error("could not upgrade chat connection")
		return
	}
	defer conn.Close()

	for {
		var request apiv1.ChatRequest
		if err := conn.ReadJSON(&request); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("chat socket closed")
			}
			return
		}

		message, conversationID, err := validateChatRequest(request)
		if err != nil {
			metrics.RecordChatRequest(metrics.OutcomeRejected)
			if err := conn.WriteJSON(apiv1.Error{Code: http.StatusUnprocessableEntity, Message: err.Error()}); err != nil {
				return
			}
			continue
		}

		reply, err := s.completeChat(req.Context(), conversationID, message)
		if err != nil {
			metrics.RecordChatRequest(metrics.OutcomeError)
			log.WithError(err).WithField("conversationID", conversationID).Error("chat completion failed")
			if err := conn.WriteJSON(apiv1.Error{Code: http.StatusBadGateway, Message: "Chat completion failed"}); err != nil {
				return
			}
			continue
		}

		metrics.RecordChatRequest(metrics.OutcomeOK)
		if err := conn.WriteJSON(apiv1.ChatResponse{Reply: reply, ConversationID: conversationID}); err != nil {
			return
		}
	}
}
