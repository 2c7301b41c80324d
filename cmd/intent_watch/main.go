// Command intent_watch tails INTENT_PARSED events from NATS.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ai-taskbot-be/internal/config"
	"ai-taskbot-be/internal/constant"
	"ai-taskbot-be/pkg/events"
	pktNats "ai-taskbot-be/pkg/nats"

	"github.com/fatih/color"
)

func main() {
	durable := flag.String("durable", "", "durable consumer name (empty for ephemeral)")
	flag.Parse()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stream := pktNats.StreamConfig{Name: constant.IntentStreamName, SubjectRoot: constant.IntentSubjectRoot}
	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, stream)
	if err != nil {
		color.Red("Failed to connect to NATS: %v", err)
		os.Exit(1)
	}
	defer sub.Close()

	subject := stream.Subject(events.TypeIntentParsed)
	cc, err := sub.Subscribe(ctx, subject, *durable, func(_ context.Context, e events.Event) error {
		p := e.Payload()
		header := color.New(color.FgGreen, color.Bold)
		if degraded, _ := p["degraded"].(bool); degraded {
			header = color.New(color.FgYellow, color.Bold)
		}
		header.Printf("[%s] %v source=%v chunks=%v\n", e.Timestamp().Format("15:04:05"), p["action"], p["source"], p["chunks"])

		b, err := json.MarshalIndent(p, "  ", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("  %s\n", b)
		return nil
	})
	if err != nil {
		color.Red("Failed to subscribe: %v", err)
		os.Exit(1)
	}
	defer cc.Stop()

	color.Cyan("Watching %s on %s (Ctrl+C to stop)", subject, cfg.App.NatsURL)
	<-ctx.Done()
}
