package dto

import (
	"time"

	"ai-taskbot-be/pkg/ai/intent"

	"github.com/google/uuid"
)

type ParseIntentRequest struct {
	Text string `json:"text" validate:"required,max=200000"`
}

type ParseIntentResponse struct {
	RequestId uuid.UUID      `json:"request_id"`
	Intent    *intent.Intent `json:"intent"`
	Cached    bool           `json:"cached"`
	ElapsedMs int64          `json:"elapsed_ms"`
}

type ListParseLogsRequest struct {
	Action   string `query:"action"`
	Degraded bool   `query:"degraded"`
	Since    string `query:"since" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

type ParseLogResponse struct {
	Id         uuid.UUID      `json:"id"`
	UserId     string         `json:"user_id,omitempty"`
	Action     string         `json:"action"`
	Source     string         `json:"source"`
	Chunks     int            `json:"chunks"`
	Degraded   bool           `json:"degraded"`
	InputChars int            `json:"input_chars"`
	ElapsedMs  int64          `json:"elapsed_ms"`
	Intent     *intent.Intent `json:"intent"`
	CreatedAt  time.Time      `json:"created_at"`
}

type ListParseLogsResponse struct {
	Items []*ParseLogResponse `json:"items"`
	Total int64               `json:"total"`
}

// PublishParseLogMessage is the in-process message written by the intent
// service and stored by the consumer.
type PublishParseLogMessage struct {
	Id         uuid.UUID      `json:"id"`
	UserId     string         `json:"user_id,omitempty"`
	TextHash   string         `json:"text_hash"`
	InputChars int            `json:"input_chars"`
	Chunks     int            `json:"chunks"`
	Source     string         `json:"source"`
	ElapsedMs  int64          `json:"elapsed_ms"`
	Intent     *intent.Intent `json:"intent"`
	CreatedAt  time.Time      `json:"created_at"`
}
