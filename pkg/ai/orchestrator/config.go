package orchestrator

import (
	"errors"
	"fmt"

	"ai-taskbot-be/pkg/ai/fusion"
	"ai-taskbot-be/pkg/ai/prompt"
)

// MinChunkTokens is the smallest chunk text budget a config may leave once
// the prompt overhead and part annotation are reserved.
const MinChunkTokens = 16

var ErrInvalidConfig = errors.New("invalid pipeline config")

type Config struct {
	// PromptCeiling is the largest estimated prompt sent in one oracle call.
	PromptCeiling int
	// OutputCeiling bounds the oracle's answer.
	OutputCeiling int
	// CombinedCeiling bounds prompt plus answer. Zero means unbounded.
	CombinedCeiling int
	// TaskOverflowCap is the number of fused tasks kept before queueing.
	TaskOverflowCap int
	// FallbackMaxTitles caps task titles from the rule classifier.
	FallbackMaxTitles int
}

func DefaultConfig() Config {
	return Config{
		PromptCeiling:     6000,
		OutputCeiling:     1024,
		CombinedCeiling:   8192,
		TaskOverflowCap:   fusion.DefaultOverflowCap,
		FallbackMaxTitles: 50,
	}
}

// EffectiveCeiling is the per-call prompt budget after reserving room for
// the answer inside the combined ceiling.
func (c Config) EffectiveCeiling() int {
	ceiling := c.PromptCeiling
	if c.CombinedCeiling > 0 {
		if room := c.CombinedCeiling - c.OutputCeiling; room < ceiling {
			ceiling = room
		}
	}
	if ceiling < 1 {
		ceiling = 1
	}
	return ceiling
}

// Validate rejects ceilings that leave no useful room for message text.
func (c Config) Validate() error {
	if c.PromptCeiling <= 0 {
		return fmt.Errorf("%w: prompt ceiling must be positive, got %d", ErrInvalidConfig, c.PromptCeiling)
	}
	if c.OutputCeiling < 0 || c.CombinedCeiling < 0 {
		return fmt.Errorf("%w: ceilings must not be negative", ErrInvalidConfig)
	}
	if c.CombinedCeiling > 0 && c.CombinedCeiling <= c.OutputCeiling {
		return fmt.Errorf("%w: combined ceiling %d leaves no room beside output ceiling %d",
			ErrInvalidConfig, c.CombinedCeiling, c.OutputCeiling)
	}
	reserved := prompt.Overhead() + prompt.AnnotationReserve
	if budget := c.EffectiveCeiling() - reserved; budget < MinChunkTokens {
		return fmt.Errorf("%w: effective ceiling %d must exceed %d reserved prompt tokens by at least %d",
			ErrInvalidConfig, c.EffectiveCeiling(), reserved, MinChunkTokens)
	}
	return nil
}
