package companionserver

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	apiv1 "github.com/hristov111/companion/pkg/apis/companion/v1"
)

// RespondWithJSON encodes data with the given status code.
func RespondWithJSON(statusCode int, w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("could not write JSON response")
	}
}

func decodeJSONBody(req *http.Request, v interface{}) error {
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(v)
}

func failureResponse(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(statusCode, w, apiv1.Error{
		Code:    statusCode,
		Message: message,
	})
}
