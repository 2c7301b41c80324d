package unitofwork

import (
	"context"

	"ai-taskbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ParseLogRepository() contract.ParseLogRepository
}
