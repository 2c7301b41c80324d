// Package gateway is the single door to the oracle. It enforces the per-call
// prompt ceiling with the local estimator before anything leaves the process
// and sorts failures into budget and transport errors.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"ai-taskbot-be/pkg/llm"
	"ai-taskbot-be/pkg/utils"
)

var ErrBudgetExceeded = errors.New("prompt exceeds token budget")

// TransportError wraps any oracle failure that is not a budget problem.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("oracle transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Gateway struct {
	provider      llm.LLMProvider
	outputCeiling int
}

func New(provider llm.LLMProvider, outputCeiling int) *Gateway {
	return &Gateway{provider: provider, outputCeiling: outputCeiling}
}

// Call sends prompt to the oracle if its estimate fits ceiling.
func (g *Gateway) Call(ctx context.Context, ceiling int, prompt string) (string, error) {
	if est := utils.EstimateTokens(prompt); est > ceiling {
		return "", fmt.Errorf("%w: estimated %d > ceiling %d", ErrBudgetExceeded, est, ceiling)
	}

	opts := []llm.Option{llm.WithTemperature(0)}
	if g.outputCeiling > 0 {
		opts = append(opts, llm.WithMaxTokens(g.outputCeiling))
	}

	out, err := g.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		if errors.Is(err, llm.ErrContextLengthExceeded) {
			return "", fmt.Errorf("%w: %v", ErrBudgetExceeded, err)
		}
		return "", &TransportError{Err: err}
	}
	return out, nil
}
