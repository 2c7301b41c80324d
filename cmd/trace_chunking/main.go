// Command trace_chunking shows how a message would move through the intent
// pipeline: token estimate, chunk boundaries and per-chunk classification.
//
// Usage:
//
//	go run ./cmd/trace_chunking [-ceiling N] [-oracle] [file]
//
// Without a file the message is read from stdin. By default only the rule
// classifier runs; -oracle calls the configured LLM provider too.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ai-taskbot-be/internal/config"
	"ai-taskbot-be/internal/pkg/logger"
	"ai-taskbot-be/pkg/ai/fallback"
	"ai-taskbot-be/pkg/ai/fusion"
	"ai-taskbot-be/pkg/ai/intent"
	"ai-taskbot-be/pkg/ai/orchestrator"
	"ai-taskbot-be/pkg/ai/prompt"
	"ai-taskbot-be/pkg/llm/factory"
	"ai-taskbot-be/pkg/utils"

	"github.com/fatih/color"
)

func main() {
	ceiling := flag.Int("ceiling", 0, "chunk ceiling in tokens (default: effective pipeline ceiling)")
	useOracle := flag.Bool("oracle", false, "run the full pipeline against the configured LLM provider")
	flag.Parse()

	text, err := readInput(flag.Arg(0))
	if err != nil {
		color.Red("Failed to read input: %v", err)
		os.Exit(1)
	}

	cfg := config.Load()
	pcfg := orchestrator.Config{
		PromptCeiling:     cfg.Pipeline.PromptCeiling,
		OutputCeiling:     cfg.Pipeline.OutputCeiling,
		CombinedCeiling:   cfg.Pipeline.CombinedCeiling,
		TaskOverflowCap:   cfg.Pipeline.TaskOverflowCap,
		FallbackMaxTitles: cfg.Pipeline.FallbackMaxTitles,
	}

	if err := pcfg.Validate(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	budget := *ceiling
	if budget <= 0 {
		budget = pcfg.EffectiveCeiling() - prompt.Overhead() - prompt.AnnotationReserve
	}

	color.Cyan("--- INPUT ---")
	fmt.Printf("Characters:      %d\n", len([]rune(text)))
	fmt.Printf("Estimated tokens: %d\n", utils.EstimateTokens(text))
	fmt.Printf("Prompt overhead:  %d\n", prompt.Overhead())
	fmt.Printf("Chunk budget:     %d\n", budget)

	chunks := utils.SplitText(text, budget)
	color.Cyan("\n--- CHUNKS (%d) ---", len(chunks))

	classifier := fallback.New(pcfg.FallbackMaxTitles)
	results := make([]*intent.Intent, 0, len(chunks))
	for _, c := range chunks {
		in := classifier.Classify(c.Text)
		results = append(results, in)

		color.Yellow("[Chunk %d/%d] %d chars, ~%d tokens", c.Index, c.Total, len([]rune(c.Text)), utils.EstimateTokens(c.Text))
		fmt.Printf("Preview: %s\n", preview(c.Text, 60))
		fmt.Printf("Rules:   %s (%d tasks, %d notes)\n", in.Action, len(in.Tasks), len(in.Notes))
	}

	if fused, err := fusion.Fuse(results, pcfg.TaskOverflowCap); err == nil {
		color.Cyan("\n--- RULES RESULT ---")
		printIntent(fused)
	}

	if !*useOracle {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider, err := factory.NewLLMProvider(ctx, cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.BaseURLFor(), cfg.APIKeyFor())
	if err != nil {
		color.Red("Failed to create LLM provider: %v", err)
		os.Exit(1)
	}

	pipeline := orchestrator.NewFromProvider(provider, pcfg, logger.NewZapLogger(cfg.App.LogFilePath, false))
	start := time.Now()
	in, err := pipeline.Parse(ctx, text)
	if err != nil {
		color.Red("Pipeline failed: %v", err)
		os.Exit(1)
	}

	color.Cyan("\n--- PIPELINE RESULT (%s, %s) ---", cfg.Ai.LLMProvider, time.Since(start).Round(time.Millisecond))
	if in.Degraded {
		color.Yellow("Degraded: rule classifier was used for at least one chunk")
	}
	printIntent(in)
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func printIntent(in *intent.Intent) {
	out := *in
	out.RawText = preview(in.RawText, 60)
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", in)
		return
	}
	fmt.Println(string(b))
	for _, w := range in.Warnings {
		color.Yellow("warning: %s", w)
	}
}
