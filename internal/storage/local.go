package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNotManaged URL 不属于本存储
var ErrNotManaged = errors.New("url is not managed by this storage")

// LocalStorage 本地磁盘文件存储，文件通过 publicPrefix 对外提供
type LocalStorage struct {
	dir          string
	publicPrefix string
	logger       *logrus.Logger
}

func NewLocalStorage(dir, publicPrefix string, logger *logrus.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	return &LocalStorage{
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		logger:       logger,
	}, nil
}

// Dir 存储根目录（供静态路由挂载）
func (s *LocalStorage) Dir() string { return s.dir }

// PublicPrefix 对外 URL 前缀
func (s *LocalStorage) PublicPrefix() string { return s.publicPrefix }

// Save 写入 <folder>/<uuid><ext>，返回对外 URL
func (s *LocalStorage) Save(folder, originalName string, r io.Reader) (string, error) {
	return s.SaveAs(folder, uuid.NewString()+strings.ToLower(filepath.Ext(originalName)), r)
}

// SaveAs 以调用方给定的文件名写入 <folder>/<name>，name 只取最后一段
func (s *LocalStorage) SaveAs(folder, name string, r io.Reader) (string, error) {
	folder = strings.Trim(filepath.Base("/"+folder), "/")
	name = filepath.Base("/" + name)
	if name == "/" || name == "." {
		return "", fmt.Errorf("无效的文件名 %q", name)
	}

	target := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}
	f, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("关闭文件失败: %w", err)
	}
	return path.Join(s.publicPrefix, folder, name), nil
}

// PathFromURL 把对外 URL 还原为磁盘路径
func (s *LocalStorage) PathFromURL(url string) (string, error) {
	if !strings.HasPrefix(url, s.publicPrefix+"/") {
		return "", ErrNotManaged
	}
	rel := path.Clean("/" + strings.TrimPrefix(url, s.publicPrefix))
	if rel == "/" {
		return "", ErrNotManaged
	}
	return filepath.Join(s.dir, filepath.FromSlash(rel)), nil
}

// Exists URL 对应的文件是否仍在磁盘上
func (s *LocalStorage) Exists(url string) bool {
	p, err := s.PathFromURL(url)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Remove 删除 URL 对应的文件；文件已不存在视为成功
func (s *LocalStorage) Remove(url string) error {
	p, err := s.PathFromURL(url)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	s.logger.WithField("path", p).Debug("已删除文件")
	return nil
}
