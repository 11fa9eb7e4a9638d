package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

const maxImageBytes = 5 << 20

var (
	// ErrInvalidUpload 上传文件格式或大小不合法
	ErrInvalidUpload = errors.New("invalid upload")

	allowedImageTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/png":  {},
		"image/webp": {},
	}

	spaceRun      = regexp.MustCompile(`\s+`)
	unsafeFileRun = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// FileStorage 上传文件的存取
type FileStorage interface {
	Save(folder, originalName string, r io.Reader) (string, error)
	Remove(url string) error
}

// Upload 一个上传文件，Size 未知时为 -1
type Upload struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// storeUpload 校验大小（图片另校验格式）后交给 save 写入；超限时删除已写入的文件
func storeUpload(up Upload, limit int64, image bool, save func(io.Reader) (string, error), remove func(string)) (string, error) {
	if up.Size > limit {
		return "", fmt.Errorf("%w: 文件过大（%d 字节，上限 %d）", ErrInvalidUpload, up.Size, limit)
	}

	r := up.Reader
	if image {
		head := make([]byte, 512)
		n, err := io.ReadFull(up.Reader, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("读取上传文件失败: %w", err)
		}
		head = head[:n]
		ct := http.DetectContentType(head)
		if _, ok := allowedImageTypes[ct]; !ok {
			return "", fmt.Errorf("%w: 不支持的图片格式 %s", ErrInvalidUpload, ct)
		}
		r = io.MultiReader(bytes.NewReader(head), up.Reader)
	}
	// 多读一个字节用于判断 Size 未知时是否超限
	lr := &io.LimitedReader{R: r, N: limit + 1}
	url, err := save(lr)
	if err != nil {
		return "", err
	}
	if lr.N == 0 {
		remove(url)
		return "", fmt.Errorf("%w: 文件过大（上限 %d 字节）", ErrInvalidUpload, limit)
	}
	return url, nil
}

func removeFile(storage FileStorage, logger *logrus.Logger, url string) {
	if url == "" {
		return
	}
	if err := storage.Remove(url); err != nil {
		logger.WithError(err).WithField("url", url).Warn("删除文件失败")
	}
}

// SanitizeFileName 去掉非 ASCII 字符，空白换成 -，只保留字母数字和 . -
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r <= 0x7f {
			b.WriteRune(r)
		}
	}
	out := spaceRun.ReplaceAllString(b.String(), "-")
	return unsafeFileRun.ReplaceAllString(out, "")
}
