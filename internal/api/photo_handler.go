package api

import (
	"errors"
	"net/http"

	"CivicPortal/internal/model"
	"CivicPortal/internal/repository"
	"CivicPortal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PhotoHandler 相册接口
type PhotoHandler struct {
	svc    *service.PhotoService
	logger *logrus.Logger
}

func NewPhotoHandler(svc *service.PhotoService, logger *logrus.Logger) *PhotoHandler {
	return &PhotoHandler{svc: svc, logger: logger}
}

// List GET /api/photos 幻灯片用，最新在前
func (h *PhotoHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListPhotos failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写真の取得に失敗しました"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": list})
}

type photoUploadError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Upload POST /admin/api/photos（multipart: 一个或多个 file，可选 title）
// 逐个保存，单个失败不影响其他文件
func (h *PhotoHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["file"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	var title *string
	if v, ok := c.GetPostForm("title"); ok {
		title = &v
	}

	created := make([]*model.Photo, 0, len(form.File["file"]))
	var failed []photoUploadError
	invalid := false
	for _, fh := range form.File["file"] {
		up, closeFile, err := openUpload(fh)
		if err != nil {
			failed = append(failed, photoUploadError{File: fh.Filename, Error: err.Error()})
			continue
		}
		p, err := h.svc.Upload(c.Request.Context(), title, up)
		closeFile()
		if err != nil {
			if errors.Is(err, service.ErrInvalidUpload) {
				invalid = true
			} else {
				h.logger.WithError(err).WithField("file", fh.Filename).Error("UploadPhoto failed")
			}
			failed = append(failed, photoUploadError{File: fh.Filename, Error: err.Error()})
			continue
		}
		created = append(created, p)
	}

	status := http.StatusCreated
	switch {
	case len(created) > 0:
	case invalid:
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"photos": created, "errors": failed})
}

// Delete DELETE /admin/api/photos/:id
func (h *PhotoHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
			return
		}
		h.logger.WithError(err).Error("DeletePhoto failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
