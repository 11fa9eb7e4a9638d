package repository

import (
	"context"
	"errors"

	"CivicPortal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrPhotoNotFound 指定 ID 的照片不存在
var ErrPhotoNotFound = errors.New("photo not found")

// PhotoRepository 相册仓储接口
type PhotoRepository interface {
	// List 按创建时间倒序
	List(ctx context.Context) ([]*model.Photo, error)
	GetByID(ctx context.Context, id string) (*model.Photo, error)
	Create(ctx context.Context, p *model.Photo) error
	Delete(ctx context.Context, id string) error
}

type photoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) List(ctx context.Context) ([]*model.Photo, error) {
	var list []*model.Photo
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *photoRepository) GetByID(ctx context.Context, id string) (*model.Photo, error) {
	var p model.Photo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *photoRepository) Create(ctx context.Context, p *model.Photo) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *photoRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Photo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
