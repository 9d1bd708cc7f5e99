package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"gorm.io/gorm"
)

// Conversation is one logical dialogue session. The ID is supplied by the
// client, so no database-side default is used.
type Conversation struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Metadata stores additional information like persona or client context
	Metadata pgtype.JSONB `json:"metadata,omitempty" gorm:"type:jsonb"`
}

// ConversationMessage is a single turn of a conversation's transcript.
type ConversationMessage struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`
	Role           string    `json:"role" gorm:"not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// MemoryEntry is one unit of long-term recall for a conversation. Each row
// is mirrored into the vector index under the same ID.
type MemoryEntry struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at"`
}
