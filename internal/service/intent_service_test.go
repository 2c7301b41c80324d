package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ai-taskbot-be/internal/constant"
	"ai-taskbot-be/internal/dto"
	"ai-taskbot-be/internal/entity"
	"ai-taskbot-be/internal/pkg/logger"
	"ai-taskbot-be/internal/repository/memory"
	"ai-taskbot-be/internal/repository/specification"
	"ai-taskbot-be/pkg/ai/intent"
	"ai-taskbot-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTask(text string) *intent.Intent {
	in := intent.New(intent.ActionCreateTask, text)
	in.Tasks = []intent.Item{{Title: text}}
	return in
}

func TestHashText(t *testing.T) {
	assert.Equal(t, HashText("buy milk"), HashText("  buy milk\n"))
	assert.NotEqual(t, HashText("buy milk"), HashText("buy eggs"))
	assert.Len(t, HashText("x"), 64)
}

func TestIntentService_ParseCachesAndPublishes(t *testing.T) {
	parser := &fakeParser{chunks: 1, result: createTask}
	evts := &fakeEvents{}
	pub := &fakePublisher{}
	cache := memory.NewIntentCache(time.Minute)

	svc := NewIntentService(parser, cache, evts, pub, nil, logger.NewNopLogger())
	ctx := context.Background()

	first, err := svc.Parse(ctx, "user-1", &dto.ParseIntentRequest{Text: "buy milk"})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, intent.ActionCreateTask, first.Intent.Action)
	assert.NotEqual(t, uuid.Nil, first.RequestId)

	second, err := svc.Parse(ctx, "user-1", &dto.ParseIntentRequest{Text: " buy milk "})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, " buy milk ", second.Intent.RawText)
	assert.Equal(t, 1, parser.calls)

	require.Len(t, evts.published, 1)
	assert.Equal(t, events.TypeIntentParsed, evts.published[0].EventType())
	assert.Equal(t, "user-1", evts.published[0].Payload()["user_id"])

	require.Len(t, pub.payloads, 2)
	var msg dto.PublishParseLogMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, constant.ParseSourceOracle, msg.Source)
	assert.Equal(t, 8, msg.InputChars)
	assert.Equal(t, HashText("buy milk"), msg.TextHash)
	require.NoError(t, json.Unmarshal(pub.payloads[1], &msg))
	assert.Equal(t, constant.ParseSourceCache, msg.Source)
}

func TestIntentService_DegradedNotCached(t *testing.T) {
	parser := &fakeParser{chunks: 2, result: func(text string) *intent.Intent {
		in := createTask(text)
		in.Degraded = true
		return in
	}}
	pub := &fakePublisher{}
	svc := NewIntentService(parser, memory.NewIntentCache(time.Minute), nil, pub, nil, logger.NewNopLogger())

	for i := 0; i < 2; i++ {
		res, err := svc.Parse(context.Background(), "", &dto.ParseIntentRequest{Text: "walk dog"})
		require.NoError(t, err)
		assert.False(t, res.Cached)
	}
	assert.Equal(t, 2, parser.calls)

	var msg dto.PublishParseLogMessage
	require.NoError(t, json.Unmarshal(pub.payloads[0], &msg))
	assert.Equal(t, constant.ParseSourceFallback, msg.Source)
	assert.Equal(t, 2, msg.Chunks)
}

func TestIntentService_ParseErrors(t *testing.T) {
	svc := NewIntentService(&fakeParser{result: createTask}, nil, nil, nil, nil, logger.NewNopLogger())
	_, err := svc.Parse(context.Background(), "", &dto.ParseIntentRequest{Text: "   "})
	assert.ErrorIs(t, err, intent.ErrEmptyInput)

	boom := errors.New("context deadline exceeded")
	svc = NewIntentService(&fakeParser{err: boom}, nil, nil, nil, nil, logger.NewNopLogger())
	_, err = svc.Parse(context.Background(), "", &dto.ParseIntentRequest{Text: "x"})
	assert.ErrorIs(t, err, boom)
}

func TestIntentService_EventFailureDoesNotFailRequest(t *testing.T) {
	svc := NewIntentService(&fakeParser{result: createTask}, nil, &fakeEvents{err: errors.New("nats down")}, nil, nil, logger.NewNopLogger())
	res, err := svc.Parse(context.Background(), "", &dto.ParseIntentRequest{Text: "x"})
	require.NoError(t, err)
	assert.NotNil(t, res.Intent)
}

func TestIntentService_RecentLogs(t *testing.T) {
	repo := &fakeParseLogRepo{found: []*entity.ParseLog{
		{Id: uuid.New(), Action: "create_task", Source: "oracle", Intent: createTask("a")},
	}}
	svc := NewIntentService(&fakeParser{}, nil, nil, nil, &fakeFactory{uow: &fakeUnitOfWork{repo: repo}}, logger.NewNopLogger())

	res, err := svc.RecentLogs(context.Background(), "user-1", &dto.ListParseLogsRequest{Action: "Create-Task", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "create_task", res.Items[0].Action)

	require.Len(t, repo.specs, 1)
	assert.Contains(t, repo.specs[0], specification.Specification(specification.ByUserID{UserID: "user-1"}))
	assert.Contains(t, repo.specs[0], specification.Specification(specification.ByAction{Action: "create_task"}))
	assert.Contains(t, repo.specs[0], specification.Specification(specification.Pagination{Limit: constant.ParseLogMaxLimit}))

	_, err = svc.RecentLogs(context.Background(), "user-1", &dto.ListParseLogsRequest{Action: "fly"})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestIntentService_RecentLogsFilters(t *testing.T) {
	repo := &fakeParseLogRepo{}
	svc := NewIntentService(&fakeParser{}, nil, nil, nil, &fakeFactory{uow: &fakeUnitOfWork{repo: repo}}, logger.NewNopLogger())

	_, err := svc.RecentLogs(context.Background(), "user-1", &dto.ListParseLogsRequest{
		Degraded: true,
		Since:    "2026-10-01T00:00:00Z",
	})
	require.NoError(t, err)

	require.Len(t, repo.specs, 1)
	assert.Contains(t, repo.specs[0], specification.Specification(specification.DegradedOnly{}))
	assert.Contains(t, repo.specs[0], specification.Specification(specification.CreatedAfter{
		Since: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}))

	_, err = svc.RecentLogs(context.Background(), "user-1", &dto.ListParseLogsRequest{Since: "yesterday"})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestIntentService_LogByID(t *testing.T) {
	id := uuid.New()
	repo := &fakeParseLogRepo{}
	svc := NewIntentService(&fakeParser{}, nil, nil, nil, &fakeFactory{uow: &fakeUnitOfWork{repo: repo}}, logger.NewNopLogger())

	_, err := svc.LogByID(context.Background(), "user-1", id)
	assert.ErrorIs(t, err, ErrParseLogNotFound)

	repo.found = []*entity.ParseLog{{Id: id, UserId: "user-1", Action: "focus", Source: "fallback", Intent: createTask("a")}}
	res, err := svc.LogByID(context.Background(), "user-1", id)
	require.NoError(t, err)
	assert.Equal(t, id, res.Id)
	assert.Equal(t, "focus", res.Action)

	require.Len(t, repo.specs, 2)
	assert.Contains(t, repo.specs[1], specification.Specification(specification.ByID{ID: id}))
	assert.Contains(t, repo.specs[1], specification.Specification(specification.ByUserID{UserID: "user-1"}))

	_, err = NewIntentService(&fakeParser{}, nil, nil, nil, nil, logger.NewNopLogger()).LogByID(context.Background(), "u", id)
	assert.ErrorIs(t, err, ErrParseLogDisabled)
}

func TestIntentService_RecentLogsWithoutDatabase(t *testing.T) {
	svc := NewIntentService(&fakeParser{}, nil, nil, nil, nil, logger.NewNopLogger())
	_, err := svc.RecentLogs(context.Background(), "u", &dto.ListParseLogsRequest{})
	assert.ErrorIs(t, err, ErrParseLogDisabled)
}
