package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TranscriptEntry is one finalized utterance of an interview session.
// Transcript mutation is append-only during a live call.
type TranscriptEntry struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Interview is one mock teaching interview owned by a single user.
type Interview struct {
	ID         uuid.UUID                            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID                            `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Role       string                               `gorm:"not null;column:role" json:"role"`
	Level      string                               `gorm:"not null;column:level" json:"level"`
	Topic      string                               `gorm:"not null;column:topic" json:"topic"`
	Focus      string                               `gorm:"column:focus" json:"focus"`
	Time       int                                  `gorm:"not null;column:time_minutes" json:"time"`
	Questions  datatypes.JSONSlice[string]          `gorm:"column:questions" json:"questions"`
	Transcript datatypes.JSONSlice[TranscriptEntry] `gorm:"column:transcript" json:"transcript,omitempty"`
	Feedback   string                               `gorm:"type:text;column:feedback" json:"feedback,omitempty"`
	CreatedAt  time.Time                            `gorm:"not null;default:now()" json:"created_at"`
}

func (Interview) TableName() string {
	return "interview"
}

// ChatMessage is one chatbot turn. Ephemeral: held in client state only,
// replayed into prompts, never persisted.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
