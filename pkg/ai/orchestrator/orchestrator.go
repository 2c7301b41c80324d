// Package orchestrator drives the oracle over a user message: one call when
// the message fits the per-call ceiling, otherwise one call per chunk in order,
// with rule-based classification standing in for any chunk the oracle could
// not handle. Chunk results are fused into a single intent.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-taskbot-be/pkg/ai/fallback"
	"ai-taskbot-be/pkg/ai/fusion"
	"ai-taskbot-be/pkg/ai/gateway"
	"ai-taskbot-be/pkg/ai/intent"
	"ai-taskbot-be/pkg/ai/prompt"
	"ai-taskbot-be/pkg/llm"
	"ai-taskbot-be/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const module = "orchestrator"

const (
	WarnOracleUnavailable = "The assistant model was unreachable, so built-in rules were used."
	WarnPartialFallback   = "Some parts could only be understood with built-in rules."
	warnProcessedInParts  = "Your message was long, so it was processed in %d parts."
)

// Logger is the subset of the service logger the pipeline writes to.
type Logger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}

type Orchestrator struct {
	oracle Strategy
	rules  Strategy
	cfg    Config
	logger Logger
	tracer trace.Tracer
}

func New(oracle, rules Strategy, cfg Config, logger Logger) *Orchestrator {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Orchestrator{
		oracle: oracle,
		rules:  rules,
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer("ai-taskbot-be/pkg/ai/orchestrator"),
	}
}

// NewFromProvider wires the default oracle and rule strategies.
func NewFromProvider(provider llm.LLMProvider, cfg Config, logger Logger) *Orchestrator {
	oracle := NewOracleStrategy(gateway.New(provider, cfg.OutputCeiling))
	rules := NewRuleStrategy(fallback.New(cfg.FallbackMaxTitles))
	return New(oracle, rules, cfg, logger)
}

// Parse turns text into one intent. It fails only on empty input or when ctx
// ends before a result is produced.
func (o *Orchestrator) Parse(ctx context.Context, text string) (*intent.Intent, error) {
	if strings.TrimSpace(text) == "" {
		return nil, intent.ErrEmptyInput
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.Parse")
	defer span.End()

	ceiling := o.cfg.EffectiveCeiling()
	whole := utils.Chunk{Text: text, Index: 1, Total: 1}
	estimate := utils.EstimateTokens(prompt.Build(whole))
	span.SetAttributes(
		attribute.Int("pipeline.estimate", estimate),
		attribute.Int("pipeline.ceiling", ceiling),
	)

	var (
		result *intent.Intent
		err    error
	)
	if estimate <= ceiling {
		span.SetAttributes(attribute.String("pipeline.path", "single"))
		result, err = o.parseSingle(ctx, whole, ceiling)
	} else {
		span.SetAttributes(attribute.String("pipeline.path", "chunked"))
		result, err = o.parseChunked(ctx, text, ceiling)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("intent.action", string(result.Action)),
		attribute.Bool("intent.degraded", result.Degraded),
	)
	return result, nil
}

// ChunkCount reports how many oracle chunks Parse would plan for text,
// before any budget re-split.
func (o *Orchestrator) ChunkCount(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	ceiling := o.cfg.EffectiveCeiling()
	if utils.EstimateTokens(prompt.Build(utils.Chunk{Text: text, Index: 1, Total: 1})) <= ceiling {
		return 1
	}
	return len(utils.SplitText(text, o.splitBudget(ceiling)))
}

func (o *Orchestrator) splitBudget(ceiling int) int {
	return ceiling - prompt.Overhead() - prompt.AnnotationReserve
}

func (o *Orchestrator) parseSingle(ctx context.Context, whole utils.Chunk, ceiling int) (*intent.Intent, error) {
	results, err := o.processChunk(ctx, whole, ceiling)
	if err != nil {
		return nil, err
	}
	if len(results) == 1 {
		return results[0], nil
	}

	// The oracle rejected a prompt the estimator accepted and it was re-split.
	fused, err := fusion.Fuse(results, o.cfg.TaskOverflowCap)
	if err != nil {
		return nil, err
	}
	fused.RawText = whole.Text
	return fused, nil
}

func (o *Orchestrator) parseChunked(ctx context.Context, text string, ceiling int) (*intent.Intent, error) {
	budget := o.splitBudget(ceiling)
	chunks := utils.SplitText(text, budget)

	o.logger.Info(module, "Message split into chunks", map[string]interface{}{
		"chunks":  len(chunks),
		"budget":  budget,
		"ceiling": ceiling,
	})

	results := make([]*intent.Intent, 0, len(chunks))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rs, err := o.processChunk(ctx, chunk, ceiling)
		if err != nil {
			return nil, err
		}
		results = append(results, rs...)
	}

	fused, err := fusion.Fuse(results, o.cfg.TaskOverflowCap)
	if err != nil {
		return nil, err
	}
	fused.RawText = text
	fused.AddWarning(fmt.Sprintf(warnProcessedInParts, len(chunks)))
	if fused.Degraded {
		fused.AddWarning(WarnPartialFallback)
	}
	return fused, nil
}

// processChunk classifies one chunk with the oracle. A budget rejection
// re-splits the chunk in half once; every other failure goes to the rules.
func (o *Orchestrator) processChunk(ctx context.Context, chunk utils.Chunk, ceiling int) ([]*intent.Intent, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.chunk", trace.WithAttributes(
		attribute.Int("chunk.index", chunk.Index),
		attribute.Int("chunk.total", chunk.Total),
	))
	defer span.End()

	in, err := o.oracle.Classify(ctx, chunk, ceiling)
	if err == nil {
		return []*intent.Intent{in}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	span.RecordError(err)

	if errors.Is(err, gateway.ErrBudgetExceeded) {
		return o.resplit(ctx, chunk, ceiling, err)
	}
	return []*intent.Intent{o.fallback(ctx, chunk, err)}, nil
}

func (o *Orchestrator) resplit(ctx context.Context, chunk utils.Chunk, ceiling int, cause error) ([]*intent.Intent, error) {
	half := (utils.EstimateTokens(chunk.Text) + 1) / 2
	pieces := utils.SplitText(chunk.Text, half)

	o.logger.Warn(module, "Oracle rejected chunk budget, re-splitting", map[string]interface{}{
		"chunk":  chunk.Index,
		"pieces": len(pieces),
		"error":  cause.Error(),
	})

	if len(pieces) < 2 {
		return []*intent.Intent{o.fallback(ctx, chunk, cause)}, nil
	}

	out := make([]*intent.Intent, 0, len(pieces))
	for _, p := range pieces {
		sub := utils.Chunk{Text: p.Text, Index: chunk.Index, Total: chunk.Total}
		in, err := o.oracle.Classify(ctx, sub, ceiling)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			in = o.fallback(ctx, sub, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func (o *Orchestrator) fallback(ctx context.Context, chunk utils.Chunk, cause error) *intent.Intent {
	in, err := o.rules.Classify(ctx, chunk, 0)
	if err != nil || in == nil {
		in = intent.New(intent.ActionUnknown, chunk.Text)
		in.Degraded = true
	}

	var te *gateway.TransportError
	if errors.As(cause, &te) {
		in.AddWarning(WarnOracleUnavailable)
	}

	o.logger.Warn(module, "Chunk classified by rules", map[string]interface{}{
		"chunk":    chunk.Index,
		"total":    chunk.Total,
		"strategy": o.rules.Name(),
		"action":   string(in.Action),
		"cause":    cause.Error(),
	})
	return in
}
