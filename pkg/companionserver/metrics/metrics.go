package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	chatRequestsMetricName       = "companion_chat_requests_total"
	llmRequestDurationMetricName = "companion_llm_request_duration_seconds"
	conversationResetsMetricName = "companion_conversation_resets_total"
	memoryClearsMetricName       = "companion_memory_clears_total"
	validationFailuresMetricName = "companion_validation_failures_total"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	chatRequestsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: chatRequestsMetricName,
		Help: "Number of chat requests handled, by outcome",
	}, []string{"outcome"})

	llmRequestDurationMetric = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    llmRequestDurationMetricName,
		Help:    "Latency of chat completion calls to the language model",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	conversationResetsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: conversationResetsMetricName,
		Help: "Number of successful conversation resets",
	})

	memoryClearsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: memoryClearsMetricName,
		Help: "Number of successful memory clears",
	})

	validationFailuresMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: validationFailuresMetricName,
		Help: "Number of requests rejected by input validation, by endpoint",
	}, []string{"endpoint"})
)

func RecordChatRequest(outcome string) {
	chatRequestsMetric.WithLabelValues(outcome).Inc()
}

func ObserveLLMRequest(d time.Duration) {
	llmRequestDurationMetric.Observe(d.Seconds())
}

func RecordConversationReset() {
	conversationResetsMetric.Inc()
}

func RecordMemoryClear() {
	memoryClearsMetric.Inc()
}

func RecordValidationFailure(endpoint string) {
	validationFailuresMetric.WithLabelValues(endpoint).Inc()
}
