package contract

import (
	"context"

	"ai-taskbot-be/pkg/ai/intent"
)

// IntentCache stores parsed intents by message hash. A miss is (nil, false, nil).
type IntentCache interface {
	Get(ctx context.Context, key string) (*intent.Intent, bool, error)
	Set(ctx context.Context, key string, in *intent.Intent) error
}
