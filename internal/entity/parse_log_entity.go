package entity

import (
	"time"

	"ai-taskbot-be/pkg/ai/intent"

	"github.com/google/uuid"
)

// ParseLog records one parsed message.
type ParseLog struct {
	Id         uuid.UUID
	UserId     string
	TextHash   string
	InputChars int
	Chunks     int
	Action     string
	Source     string
	Degraded   bool
	ElapsedMs  int64
	Intent     *intent.Intent
	CreatedAt  time.Time
}
