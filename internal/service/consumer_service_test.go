package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-taskbot-be/internal/dto"
	"ai-taskbot-be/internal/entity"
	"ai-taskbot-be/internal/pkg/logger"
	"ai-taskbot-be/pkg/ai/intent"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerService_StoresParseLogs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	repo := &fakeParseLogRepo{stored: make(chan *entity.ParseLog, 4), failN: 1}
	consumer := NewConsumerService(pubSub, "PARSE_LOG", &fakeFactory{uow: &fakeUnitOfWork{repo: repo}}, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("PARSE_LOG", pubSub)

	require.NoError(t, publisher.Publish(ctx, []byte("not json")))

	in := intent.New(intent.ActionFocus, "focus 25 minutes")
	in.Entities[intent.EntityDuration] = 25
	payload, err := json.Marshal(dto.PublishParseLogMessage{Id: uuid.New(), Source: "oracle", Chunks: 1, Intent: in})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	// The first store attempt fails and the message is redelivered.
	select {
	case log := <-repo.stored:
		assert.Equal(t, "focus", log.Action)
		assert.Equal(t, "oracle", log.Source)
		assert.Equal(t, 1, log.Chunks)
	case <-time.After(2 * time.Second):
		t.Fatal("parse log was not stored")
	}
}
