package service

import (
	"context"
	"encoding/json"

	"ai-taskbot-be/internal/constant"
	"ai-taskbot-be/internal/dto"
	"ai-taskbot-be/internal/mapper"
	"ai-taskbot-be/internal/pkg/logger"
	"ai-taskbot-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	mapper     *mapper.ParseLogMapper
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		mapper:     mapper.NewParseLogMapper(),
		logger:     logger,
	}
}

// Consume stores parse-log messages until ctx is done. It returns once the
// subscription is set up.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	ctx := msg.Context()

	var payload dto.PublishParseLogMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(constant.ModuleParseLog, "Failed to unmarshal message", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error(constant.ModuleParseLog, "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	log := cs.mapper.FromMessage(&payload)
	if err := uow.ParseLogRepository().Create(ctx, log); err != nil {
		_ = uow.Rollback()
		cs.logger.Error(constant.ModuleParseLog, "Failed to store parse log", map[string]interface{}{
			"error": err.Error(),
			"id":    payload.Id.String(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error(constant.ModuleParseLog, "Failed to commit parse log", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Info(constant.ModuleParseLog, "Parse log stored", map[string]interface{}{
		"id":     log.Id.String(),
		"action": log.Action,
		"source": log.Source,
	})
	msg.Ack()
}
