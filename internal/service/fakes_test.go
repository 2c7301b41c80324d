package service

import (
	"context"
	"errors"
	"sync"

	"ai-taskbot-be/internal/entity"
	"ai-taskbot-be/internal/repository/contract"
	"ai-taskbot-be/internal/repository/specification"
	"ai-taskbot-be/internal/repository/unitofwork"
	"ai-taskbot-be/pkg/ai/intent"
	"ai-taskbot-be/pkg/events"
)

type fakeParser struct {
	calls  int
	chunks int
	result func(text string) *intent.Intent
	err    error
}

func (p *fakeParser) Parse(_ context.Context, text string) (*intent.Intent, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.result(text), nil
}

func (p *fakeParser) ChunkCount(string) int { return p.chunks }

type fakeEvents struct {
	published []events.Event
	err       error
}

func (f *fakeEvents) Publish(_ context.Context, e events.Event) error {
	f.published = append(f.published, e)
	return f.err
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

type fakeParseLogRepo struct {
	mu      sync.Mutex
	created []*entity.ParseLog
	found   []*entity.ParseLog
	specs   [][]specification.Specification
	failN   int
	stored  chan *entity.ParseLog
}

func (r *fakeParseLogRepo) Create(_ context.Context, log *entity.ParseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failN > 0 {
		r.failN--
		return errors.New("db unavailable")
	}
	r.created = append(r.created, log)
	if r.stored != nil {
		r.stored <- log
	}
	return nil
}

func (r *fakeParseLogRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ParseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = append(r.specs, specs)
	if len(r.found) == 0 {
		return nil, nil
	}
	return r.found[0], nil
}

func (r *fakeParseLogRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ParseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = append(r.specs, specs)
	return r.found, nil
}

func (r *fakeParseLogRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.found)), nil
}

type fakeUnitOfWork struct {
	repo *fakeParseLogRepo
}

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error { return nil }
func (u *fakeUnitOfWork) ParseLogRepository() contract.ParseLogRepository {
	return u.repo
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }
