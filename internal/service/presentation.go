package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"CivicPortal/internal/model"
	"CivicPortal/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	presentationFiles = "files"
	thumbnailFiles    = "thumbnails"
)

// ErrInvalidPresentation 发表资料参数不合法
var ErrInvalidPresentation = errors.New("invalid presentation")

// PresentationInput 新建参数
type PresentationInput struct {
	Title       string
	Description *string
	Type        model.PresentationType
}

// PresentationPatch 更新参数，nil 字段不修改
type PresentationPatch struct {
	Title       *string
	Description *string
	Type        *model.PresentationType
}

// PresentationService 发表资料管理
type PresentationService struct {
	repo        repository.PresentationRepository
	storage     FileStorage
	maxUploadMB int
	logger      *logrus.Logger
}

func NewPresentationService(repo repository.PresentationRepository, storage FileStorage, maxUploadMB int, logger *logrus.Logger) *PresentationService {
	return &PresentationService{repo: repo, storage: storage, maxUploadMB: maxUploadMB, logger: logger}
}

func (s *PresentationService) List(ctx context.Context) ([]*model.Presentation, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询发表资料失败: %w", err)
	}
	return list, nil
}

func (s *PresentationService) Get(ctx context.Context, id string) (*model.Presentation, error) {
	return s.repo.GetByID(ctx, id)
}

// Add 先保存文件再写库；写库失败时清理已保存的文件
func (s *PresentationService) Add(ctx context.Context, in PresentationInput, file Upload, thumbnail *Upload) (*model.Presentation, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: 标题不能为空", ErrInvalidPresentation)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: 未知的类型 %q", ErrInvalidPresentation, in.Type)
	}

	fileURL, err := s.saveUpload(presentationFiles, file, in.Type == model.PresentationImage)
	if err != nil {
		return nil, err
	}
	p := &model.Presentation{
		Title:       title,
		Description: trimOptional(in.Description),
		Type:        in.Type,
		FileURL:     fileURL,
	}
	if thumbnail != nil {
		thumbURL, err := s.saveUpload(thumbnailFiles, *thumbnail, true)
		if err != nil {
			s.removeQuietly(fileURL)
			return nil, err
		}
		p.ThumbnailURL = &thumbURL
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.removeQuietly(p.FileURL)
		if p.ThumbnailURL != nil {
			s.removeQuietly(*p.ThumbnailURL)
		}
		return nil, fmt.Errorf("保存发表资料失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"id": p.ID, "type": p.Type}).Info("新增发表资料")
	return p, nil
}

// Update 替换文件时删除旧文件；写库失败时删除新保存的文件
func (s *PresentationService) Update(ctx context.Context, id string, patch PresentationPatch, file, thumbnail *Upload) (*model.Presentation, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	typ := current.Type
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: 标题不能为空", ErrInvalidPresentation)
		}
		updates["title"] = title
	}
	if patch.Description != nil {
		updates["description"] = trimOptional(patch.Description)
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, fmt.Errorf("%w: 未知的类型 %q", ErrInvalidPresentation, *patch.Type)
		}
		typ = *patch.Type
		updates["type"] = typ
	}

	var stale []string
	if file != nil {
		url, err := s.saveUpload(presentationFiles, *file, typ == model.PresentationImage)
		if err != nil {
			return nil, err
		}
		updates["file_url"] = url
		stale = append(stale, current.FileURL)
	}
	if thumbnail != nil {
		url, err := s.saveUpload(thumbnailFiles, *thumbnail, true)
		if err != nil {
			if u, ok := updates["file_url"].(string); ok {
				s.removeQuietly(u)
			}
			return nil, err
		}
		updates["thumbnail_url"] = url
		if current.ThumbnailURL != nil {
			stale = append(stale, *current.ThumbnailURL)
		}
	}
	if len(updates) == 0 {
		return current, nil
	}
	updates["updated_at"] = time.Now().UTC()

	if err := s.repo.Update(ctx, id, updates); err != nil {
		for _, col := range []string{"file_url", "thumbnail_url"} {
			if u, ok := updates[col].(string); ok {
				s.removeQuietly(u)
			}
		}
		return nil, fmt.Errorf("更新发表资料失败: %w", err)
	}
	for _, url := range stale {
		s.removeQuietly(url)
	}
	return s.repo.GetByID(ctx, id)
}

// Delete 文件删除失败只记日志，行删除失败才返回错误
func (s *PresentationService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.removeQuietly(p.FileURL)
	if p.ThumbnailURL != nil {
		s.removeQuietly(*p.ThumbnailURL)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("删除发表资料失败: %w", err)
	}
	s.logger.WithField("id", id).Info("删除发表资料")
	return nil
}

func (s *PresentationService) saveUpload(folder string, up Upload, image bool) (string, error) {
	limit := int64(s.maxUploadMB) << 20
	if image {
		limit = maxImageBytes
	}
	url, err := storeUpload(up, limit, image, func(r io.Reader) (string, error) {
		return s.storage.Save(folder, up.Name, r)
	}, s.removeQuietly)
	if errors.Is(err, ErrInvalidUpload) {
		return "", fmt.Errorf("%w: %w", ErrInvalidPresentation, err)
	}
	return url, err
}

func (s *PresentationService) removeQuietly(url string) {
	removeFile(s.storage, s.logger, url)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
