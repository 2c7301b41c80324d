package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"ai-taskbot-be/internal/constant"
	"ai-taskbot-be/internal/dto"
	"ai-taskbot-be/internal/mapper"
	"ai-taskbot-be/internal/pkg/logger"
	"ai-taskbot-be/internal/repository/contract"
	"ai-taskbot-be/internal/repository/specification"
	"ai-taskbot-be/internal/repository/unitofwork"
	"ai-taskbot-be/pkg/ai/intent"
	"ai-taskbot-be/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	ErrParseLogDisabled = fiber.NewError(fiber.StatusServiceUnavailable, "parse log storage is not configured")
	ErrParseLogNotFound = fiber.NewError(fiber.StatusNotFound, "parse log not found")
)

// IntentParser is the pipeline entry point.
type IntentParser interface {
	Parse(ctx context.Context, text string) (*intent.Intent, error)
	ChunkCount(text string) int
}

// EventPublisher emits events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IIntentService interface {
	Parse(ctx context.Context, userId string, req *dto.ParseIntentRequest) (*dto.ParseIntentResponse, error)
	RecentLogs(ctx context.Context, userId string, req *dto.ListParseLogsRequest) (*dto.ListParseLogsResponse, error)
	LogByID(ctx context.Context, userId string, id uuid.UUID) (*dto.ParseLogResponse, error)
}

type intentService struct {
	parser           IntentParser
	cache            contract.IntentCache
	eventPublisher   EventPublisher
	publisherService IPublisherService
	uowFactory       unitofwork.RepositoryFactory
	mapper           *mapper.ParseLogMapper
	logger           logger.ILogger
}

// NewIntentService wires the pipeline. cache, eventPublisher,
// publisherService and uowFactory are optional.
func NewIntentService(
	parser IntentParser,
	cache contract.IntentCache,
	eventPublisher EventPublisher,
	publisherService IPublisherService,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IIntentService {
	return &intentService{
		parser:           parser,
		cache:            cache,
		eventPublisher:   eventPublisher,
		publisherService: publisherService,
		uowFactory:       uowFactory,
		mapper:           mapper.NewParseLogMapper(),
		logger:           logger,
	}
}

// HashText keys the cache and parse logs. Surrounding whitespace is ignored.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

func (s *intentService) Parse(ctx context.Context, userId string, req *dto.ParseIntentRequest) (*dto.ParseIntentResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, intent.ErrEmptyInput
	}

	start := time.Now()
	requestId := uuid.New()
	hash := HashText(req.Text)

	if in, ok := s.cached(ctx, hash); ok {
		in.RawText = req.Text
		elapsed := time.Since(start).Milliseconds()
		s.record(ctx, requestId, userId, hash, req.Text, 0, constant.ParseSourceCache, elapsed, in)
		return &dto.ParseIntentResponse{RequestId: requestId, Intent: in, Cached: true, ElapsedMs: elapsed}, nil
	}

	chunks := s.parser.ChunkCount(req.Text)
	in, err := s.parser.Parse(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start).Milliseconds()

	source := constant.ParseSourceOracle
	if in.Degraded {
		source = constant.ParseSourceFallback
	}

	// Degraded results are not cached so the oracle gets another try.
	if s.cache != nil && !in.Degraded {
		if err := s.cache.Set(ctx, hash, in); err != nil {
			s.logger.Warn(constant.ModuleIntent, "Failed to cache intent", map[string]interface{}{"error": err.Error()})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewIntentParsedEvent(requestId.String(), userId, source, chunks, in)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn(constant.ModuleIntent, "Failed to publish INTENT_PARSED event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.record(ctx, requestId, userId, hash, req.Text, chunks, source, elapsed, in)

	s.logger.Info(constant.ModuleIntent, "Intent parsed", map[string]interface{}{
		"request_id": requestId.String(),
		"action":     string(in.Action),
		"chunks":     chunks,
		"source":     source,
		"elapsed_ms": elapsed,
	})

	return &dto.ParseIntentResponse{RequestId: requestId, Intent: in, ElapsedMs: elapsed}, nil
}

func (s *intentService) cached(ctx context.Context, hash string) (*intent.Intent, bool) {
	if s.cache == nil {
		return nil, false
	}
	in, ok, err := s.cache.Get(ctx, hash)
	if err != nil {
		s.logger.Warn(constant.ModuleIntent, "Intent cache lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return in, ok
}

func (s *intentService) record(ctx context.Context, id uuid.UUID, userId, hash, text string, chunks int, source string, elapsed int64, in *intent.Intent) {
	if s.publisherService == nil {
		return
	}

	msg := dto.PublishParseLogMessage{
		Id:         id,
		UserId:     userId,
		TextHash:   hash,
		InputChars: utf8.RuneCountInString(text),
		Chunks:     chunks,
		Source:     source,
		ElapsedMs:  elapsed,
		Intent:     in,
		CreatedAt:  time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error(constant.ModuleIntent, "Failed to encode parse log", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn(constant.ModuleIntent, "Failed to publish parse log", map[string]interface{}{"error": err.Error()})
	}
}

func (s *intentService) RecentLogs(ctx context.Context, userId string, req *dto.ListParseLogsRequest) (*dto.ListParseLogsResponse, error) {
	if s.uowFactory == nil {
		return nil, ErrParseLogDisabled
	}

	filters := []specification.Specification{specification.ByUserID{UserID: userId}}
	if req.Action != "" {
		action, err := intent.ParseAction(req.Action)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		filters = append(filters, specification.ByAction{Action: string(action)})
	}
	if req.Degraded {
		filters = append(filters, specification.DegradedOnly{})
	}
	if req.Since != "" {
		since, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "since must be an RFC 3339 timestamp")
		}
		filters = append(filters, specification.CreatedAfter{Since: since})
	}

	limit := req.Limit
	if limit <= 0 {
		limit = constant.ParseLogDefaultLimit
	}
	if limit > constant.ParseLogMaxLimit {
		limit = constant.ParseLogMaxLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ParseLogRepository()

	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	query := append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)
	logs, err := repo.FindAll(ctx, query...)
	if err != nil {
		return nil, err
	}

	return &dto.ListParseLogsResponse{
		Items: s.mapper.ToResponses(logs),
		Total: total,
	}, nil
}

// LogByID returns one of the caller's parse logs.
func (s *intentService) LogByID(ctx context.Context, userId string, id uuid.UUID) (*dto.ParseLogResponse, error) {
	if s.uowFactory == nil {
		return nil, ErrParseLogDisabled
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).ParseLogRepository()
	log, err := repo.FindOne(ctx, specification.ByID{ID: id}, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, ErrParseLogNotFound
	}
	return s.mapper.ToResponse(log), nil
}
