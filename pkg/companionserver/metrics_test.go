package companionserver

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hristov111/companion/pkg/companionserver/metrics"
)

// chatRequestsTotal reads the chat-request counter for one outcome label
// from the default registry. Counters are process-global, so tests compare
// deltas rather than absolute values.
func chatRequestsTotal(t *testing.T, outcome string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "companion_chat_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestChatRequestMetrics(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		llmErr          error
		expectedCode    int
		expectedOutcome string
	}{
		{
			name:            "successful chat",
			body:            `{"message": "hi"}`,
			expectedCode:    http.StatusOK,
			expectedOutcome: metrics.OutcomeOK,
		},
		{
			name:            "rejected chat",
			body:            `{"message": ""}`,
			expectedCode:    http.StatusUnprocessableEntity,
			expectedOutcome: metrics.OutcomeRejected,
		},
		{
			name:            "llm failure",
			body:            `{"message": "hi"}`,
			llmErr:          errors.New("upstream exploded"),
			expectedCode:    http.StatusBadGateway,
			expectedOutcome: metrics.OutcomeError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.llm.err = tc.llmErr

			before := map[string]float64{
				metrics.OutcomeOK:       chatRequestsTotal(t, metrics.OutcomeOK),
				metrics.OutcomeRejected: chatRequestsTotal(t, metrics.OutcomeRejected),
				metrics.OutcomeError:    chatRequestsTotal(t, metrics.OutcomeError),
			}

			rr := f.do(t, http.MethodPost, "/chat", tc.body)
			require.Equal(t, tc.expectedCode, rr.Code)

			for _, outcome := range []string{metrics.OutcomeOK, metrics.OutcomeRejected, metrics.OutcomeError} {
				delta := chatRequestsTotal(t, outcome) - before[outcome]
				if outcome == tc.expectedOutcome {
					assert.Equal(t, 1.0, delta, "outcome %q should increment", outcome)
				} else {
					assert.Equal(t, 0.0, delta, "outcome %q should not increment", outcome)
				}
			}
		})
	}
}
