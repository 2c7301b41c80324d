package bootstrap

import (
	"context"
	"fmt"
	"time"

	"ai-taskbot-be/internal/config"
	"ai-taskbot-be/internal/constant"
	"ai-taskbot-be/internal/controller"
	"ai-taskbot-be/internal/pkg/logger"
	"ai-taskbot-be/internal/repository/contract"
	"ai-taskbot-be/internal/repository/memory"
	intentRedis "ai-taskbot-be/internal/repository/redis"
	"ai-taskbot-be/internal/repository/unitofwork"
	"ai-taskbot-be/internal/service"
	"ai-taskbot-be/pkg/ai/orchestrator"
	"ai-taskbot-be/pkg/llm/factory"

	pktNats "ai-taskbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	IntentController controller.IIntentController
	HealthController controller.IHealthController

	// Background Services (nil when no database is configured)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every component. db may be nil, in which case parse
// logs are neither stored nor listed. NATS and Redis are optional too.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	}

	// 2. Pipeline
	llmProvider, err := factory.NewLLMProvider(ctx,
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURLFor(),
		cfg.APIKeyFor(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	sysLogger.Info(constant.ModuleServer, "LLM provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	pipelineCfg := orchestrator.Config{
		PromptCeiling:     cfg.Pipeline.PromptCeiling,
		OutputCeiling:     cfg.Pipeline.OutputCeiling,
		CombinedCeiling:   cfg.Pipeline.CombinedCeiling,
		TaskOverflowCap:   cfg.Pipeline.TaskOverflowCap,
		FallbackMaxTitles: cfg.Pipeline.FallbackMaxTitles,
	}
	if err := pipelineCfg.Validate(); err != nil {
		return nil, err
	}
	parser := orchestrator.NewFromProvider(llmProvider, pipelineCfg, sysLogger)

	// 3. Infrastructure
	cache := c.newIntentCache(ctx, cfg, sysLogger)

	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, pktNats.StreamConfig{
			Name:        constant.IntentStreamName,
			SubjectRoot: constant.IntentSubjectRoot,
		})
		if err != nil {
			sysLogger.Warn(constant.ModuleServer, "NATS unavailable, intent events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 4. Parse-log bus
	var publisherService service.IPublisherService
	if uowFactory != nil {
		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
		c.closers = append(c.closers, func() { _ = pubSub.Close() })

		consumerLogger := logger.NewIsolatedLogger(cfg.App.ConsumerLogPath)
		c.closers = append(c.closers, func() { _ = consumerLogger.Sync() })

		publisherService = service.NewPublisherService(cfg.Pipeline.ParseLogTopic, pubSub)
		c.ConsumerService = service.NewConsumerService(pubSub, cfg.Pipeline.ParseLogTopic, uowFactory, consumerLogger)
	}

	// 5. Services
	intentService := service.NewIntentService(parser, cache, eventPublisher, publisherService, uowFactory, sysLogger)

	// 6. Controllers
	c.IntentController = controller.NewIntentController(intentService, cfg.Keys.JwtSecret)
	c.HealthController = controller.NewHealthController(cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	return c, nil
}

func (c *Container) newIntentCache(ctx context.Context, cfg *config.Config, log logger.ILogger) contract.IntentCache {
	ttl := time.Duration(cfg.Pipeline.CacheTTLMinutes) * time.Minute
	if cfg.App.RedisURL == "" {
		return memory.NewIntentCache(ttl)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Warn(constant.ModuleServer, "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn(constant.ModuleServer, "Redis unavailable, using in-memory intent cache", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return memory.NewIntentCache(ttl)
	}

	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return intentRedis.NewIntentCache(rdb, ttl)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
