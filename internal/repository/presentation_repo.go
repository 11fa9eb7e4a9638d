package repository

import (
	"context"
	"errors"

	"CivicPortal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPresentationNotFound 指定 ID 的发表资料不存在
var ErrPresentationNotFound = errors.New("presentation not found")

// PresentationRepository 发表资料仓储接口
type PresentationRepository interface {
	// List 按创建时间倒序
	List(ctx context.Context) ([]*model.Presentation, error)
	GetByID(ctx context.Context, id string) (*model.Presentation, error)
	Create(ctx context.Context, p *model.Presentation) error
	// Update 仅更新 updates 中给出的列
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type presentationRepository struct {
	db *gorm.DB
}

// NewPresentationRepository 创建 PresentationRepository 实例
func NewPresentationRepository(db *gorm.DB) PresentationRepository {
	return &presentationRepository{db: db}
}

func (r *presentationRepository) List(ctx context.Context) ([]*model.Presentation, error) {
	var list []*model.Presentation
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *presentationRepository) GetByID(ctx context.Context, id string) (*model.Presentation, error) {
	var p model.Presentation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresentationNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *presentationRepository) Create(ctx context.Context, p *model.Presentation) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *presentationRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Presentation{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPresentationNotFound
	}
	return nil
}

func (r *presentationRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Presentation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPresentationNotFound
	}
	return nil
}
