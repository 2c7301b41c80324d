package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"ai-taskbot-be/internal/bootstrap"
	"ai-taskbot-be/internal/config"
	"ai-taskbot-be/internal/constant"
	"ai-taskbot-be/internal/server"
	"ai-taskbot-be/internal/tracer"
	"ai-taskbot-be/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer container.Close()

	// 4. Tracer
	shutdownTracer := tracer.InitTracer(ctx, cfg.App.OtelEnabled, cfg.App.OtelEndpoint, container.Logger)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(flushCtx)
	}()

	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)

	// 5. Background Services
	if container.ConsumerService != nil {
		g.Go(func() error {
			return container.ConsumerService.Consume(gctx)
		})
	}

	// 6. Server
	g.Go(srv.Run)

	g.Go(func() error {
		<-gctx.Done()
		container.Logger.Info(constant.ModuleServer, "Shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		container.Logger.Error(constant.ModuleServer, "Server stopped with error", map[string]interface{}{"error": err.Error()})
	}
}
