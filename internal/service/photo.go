package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"CivicPortal/internal/model"
	"CivicPortal/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	photoFolder       = "photos"
	photoFetchRetries = 3
)

// PhotoStorage 相册文件存储，需要能按给定文件名写入并检查文件是否还在
type PhotoStorage interface {
	FileStorage
	SaveAs(folder, name string, r io.Reader) (string, error)
	Exists(url string) bool
}

// PhotoService 相册：上传、列表（幻灯片）与删除
type PhotoService struct {
	repo       repository.PhotoRepository
	storage    PhotoStorage
	now        func() time.Time
	retryDelay time.Duration
	logger     *logrus.Logger
}

func NewPhotoService(repo repository.PhotoRepository, storage PhotoStorage, now func() time.Time, logger *logrus.Logger) *PhotoService {
	if now == nil {
		now = time.Now
	}
	return &PhotoService{repo: repo, storage: storage, now: now, retryDelay: time.Second, logger: logger}
}

// List 按上传时间倒序；查询失败最多重试 3 次，文件已丢失的照片不返回
func (s *PhotoService) List(ctx context.Context) ([]*model.Photo, error) {
	var (
		list []*model.Photo
		err  error
	)
	for attempt := 0; ; attempt++ {
		list, err = s.repo.List(ctx)
		if err == nil {
			break
		}
		if attempt >= photoFetchRetries {
			return nil, fmt.Errorf("查询照片失败: %w", err)
		}
		s.logger.WithError(err).WithField("attempt", attempt+1).Warn("查询照片失败，稍后重试")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}

	valid := make([]*model.Photo, 0, len(list))
	for _, p := range list {
		if !s.storage.Exists(p.URL) {
			s.logger.WithFields(logrus.Fields{"id": p.ID, "url": p.URL}).Warn("照片文件不存在，已跳过")
			continue
		}
		valid = append(valid, p)
	}
	return valid, nil
}

// Upload 保存为 <uuid>-<毫秒时间戳>-<清洗后的文件名>；未给标题时用清洗后的文件名
func (s *PhotoService) Upload(ctx context.Context, title *string, up Upload) (*model.Photo, error) {
	name := SanitizeFileName(up.Name)
	if name == "" {
		name = "photo"
	}
	now := s.now()
	key := fmt.Sprintf("%s-%d-%s", uuid.NewString(), now.UnixMilli(), name)

	url, err := storeUpload(up, maxImageBytes, true, func(r io.Reader) (string, error) {
		return s.storage.SaveAs(photoFolder, key, r)
	}, s.removeQuietly)
	if err != nil {
		return nil, err
	}

	photo := &model.Photo{
		Title:      trimOptional(title),
		URL:        url,
		StorageKey: photoFolder + "/" + key,
		CreatedAt:  now.UTC(),
	}
	if photo.Title == nil {
		photo.Title = &name
	}
	if err := s.repo.Create(ctx, photo); err != nil {
		s.removeQuietly(url)
		return nil, fmt.Errorf("保存照片失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"id": photo.ID, "key": photo.StorageKey}).Info("新增照片")
	return photo, nil
}

// Delete 先删文件（失败只记日志）再删行
func (s *PhotoService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.removeQuietly(p.URL)
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除照片失败: %w", err)
	}
	s.logger.WithField("id", id).Info("删除照片")
	return nil
}

func (s *PhotoService) removeQuietly(url string) {
	removeFile(s.storage, s.logger, url)
}
