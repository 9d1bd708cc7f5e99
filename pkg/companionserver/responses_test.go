package companionserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiv1 "github.com/hristov111/companion/pkg/apis/companion/v1"
)

func TestRespondWithJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondWithJSON(http.StatusTeapot, rr, map[string]string{"flavor": "earl grey"})

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "earl grey", body["flavor"])
}

func TestFailureResponseShape(t *testing.T) {
	rr := httptest.NewRecorder()
	failureResponse(rr, http.StatusUnprocessableEntity, "Invalid conversation ID format")

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var failure apiv1.Error
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &failure))
	assert.Equal(t, http.StatusUnprocessableEntity, failure.Code)
	assert.Equal(t, "Invalid conversation ID format", failure.Message)
}
