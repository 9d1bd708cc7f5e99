// Package v1 holds the wire types for the companion HTTP API.
package v1

import (
	"github.com/google/uuid"
)

// ServiceInfo is returned from the root endpoint.
type ServiceInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// DependencyStatus is the outcome of one liveness probe.
type DependencyStatus struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// Health aggregates the per-dependency probes. The endpoint always answers
// 200; degradation is expressed through these fields.
type Health struct {
	Status   string           `json:"status"`
	Version  string           `json:"version"`
	Database DependencyStatus `json:"database"`
	Cache    DependencyStatus `json:"cache"`
	LLM      DependencyStatus `json:"llm"`
}

// ConversationRequest is the payload for conversation-scoped operations
// (reset, memory clear).
type ConversationRequest struct {
	ConversationID string `json:"conversation_id"`
}

// OperationResult acknowledges a reset or clear. ConversationID always
// echoes the identifier from the request.
type OperationResult struct {
	Success        bool      `json:"success"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

// ChatRequest is the payload for chat messages. ConversationID is optional;
// when omitted the service starts a new conversation.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse carries the model's reply and the conversation it belongs to.
type ChatResponse struct {
	Reply          string    `json:"reply"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

// Error is the structured failure envelope for all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
