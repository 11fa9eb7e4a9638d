package repository

import (
	"context"

	"CivicPortal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportRepository CSV 导入记录
type ImportRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

func (r *ImportRepository) Save(ctx context.Context, batch *model.ImportBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(batch).Error
}

// ListRecent 最近的导入记录
func (r *ImportRepository) ListRecent(ctx context.Context, limit int) ([]*model.ImportBatch, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var list []*model.ImportBatch
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
