package contract

import (
	"context"

	"ai-taskbot-be/internal/entity"
	"ai-taskbot-be/internal/repository/specification"
)

type ParseLogRepository interface {
	Create(ctx context.Context, log *entity.ParseLog) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ParseLog, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ParseLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
