package implementation

import (
	"context"
	"errors"

	"ai-taskbot-be/internal/entity"
	"ai-taskbot-be/internal/mapper"
	"ai-taskbot-be/internal/model"
	"ai-taskbot-be/internal/repository/contract"
	"ai-taskbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ParseLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ParseLogMapper
}

func NewParseLogRepository(db *gorm.DB) contract.ParseLogRepository {
	return &ParseLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewParseLogMapper(),
	}
}

func (r *ParseLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ParseLogRepositoryImpl) Create(ctx context.Context, log *entity.ParseLog) error {
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(m)
	return nil
}

func (r *ParseLogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ParseLog, error) {
	var m model.ParseLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ParseLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ParseLog, error) {
	var models []*model.ParseLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ParseLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ParseLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
