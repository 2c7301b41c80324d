package events

import (
	"time"

	"ai-taskbot-be/pkg/ai/intent"
)

const TypeIntentParsed = "INTENT_PARSED"

// NewIntentParsedEvent describes a finished parse for downstream executors.
func NewIntentParsedEvent(requestID, userID, source string, chunks int, in *intent.Intent) BaseEvent {
	return BaseEvent{
		Type: TypeIntentParsed,
		Data: map[string]interface{}{
			"request_id": requestID,
			"user_id":    userID,
			"source":     source,
			"chunks":     chunks,
			"action":     string(in.Action),
			"entities":   in.Entities,
			"tasks":      in.Tasks,
			"notes":      in.Notes,
			"overflow":   in.Overflow,
			"warnings":   in.Warnings,
			"degraded":   in.Degraded,
		},
		OccurredAt: time.Now(),
	}
}
