package orchestrator

import (
	"context"

	"ai-taskbot-be/pkg/ai/fallback"
	"ai-taskbot-be/pkg/ai/gateway"
	"ai-taskbot-be/pkg/ai/intent"
	"ai-taskbot-be/pkg/ai/prompt"
	"ai-taskbot-be/pkg/ai/sanitizer"
	"ai-taskbot-be/pkg/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Strategy classifies one chunk. Errors are gateway.ErrBudgetExceeded,
// *gateway.TransportError or sanitizer.ErrParse.
type Strategy interface {
	Name() string
	Classify(ctx context.Context, chunk utils.Chunk, ceiling int) (*intent.Intent, error)
}

// OracleStrategy asks the language model through the gateway.
type OracleStrategy struct {
	gateway *gateway.Gateway
}

func NewOracleStrategy(gw *gateway.Gateway) *OracleStrategy {
	return &OracleStrategy{gateway: gw}
}

func (s *OracleStrategy) Name() string { return "oracle" }

func (s *OracleStrategy) Classify(ctx context.Context, chunk utils.Chunk, ceiling int) (*intent.Intent, error) {
	raw, err := s.gateway.Call(ctx, ceiling, prompt.Build(chunk))
	if err != nil {
		return nil, err
	}

	in, stage, err := sanitizer.Decode(raw)
	if err != nil {
		return nil, err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("chunk.decode_stage", string(stage)))
	in.RawText = chunk.Text
	return in, nil
}

// RuleStrategy is the deterministic keyword classifier. It never fails.
type RuleStrategy struct {
	classifier *fallback.Classifier
}

func NewRuleStrategy(c *fallback.Classifier) *RuleStrategy {
	return &RuleStrategy{classifier: c}
}

func (s *RuleStrategy) Name() string { return "rules" }

func (s *RuleStrategy) Classify(_ context.Context, chunk utils.Chunk, _ int) (*intent.Intent, error) {
	in := s.classifier.Classify(chunk.Text)
	in.RawText = chunk.Text
	in.Degraded = true
	return in, nil
}
