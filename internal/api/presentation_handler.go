package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"CivicPortal/internal/model"
	"CivicPortal/internal/repository"
	"CivicPortal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PresentationHandler 发表资料接口
type PresentationHandler struct {
	svc    *service.PresentationService
	logger *logrus.Logger
}

func NewPresentationHandler(svc *service.PresentationService, logger *logrus.Logger) *PresentationHandler {
	return &PresentationHandler{svc: svc, logger: logger}
}

// List GET /api/presentations
func (h *PresentationHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListPresentations failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"presentations": list})
}

// Get GET /api/presentations/:id
func (h *PresentationHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Create POST /admin/api/presentations（multipart: title, description, type, file, thumbnail）
func (h *PresentationHandler) Create(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, closeFile, err := openUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFile()

	thumb, closeThumb, err := optionalUpload(c, "thumbnail")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeThumb()

	in := service.PresentationInput{
		Title: c.PostForm("title"),
		Type:  model.PresentationType(c.DefaultPostForm("type", string(model.PresentationOther))),
	}
	if desc, ok := c.GetPostForm("description"); ok {
		in.Description = &desc
	}

	p, err := h.svc.Add(c.Request.Context(), in, file, thumb)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update PUT /admin/api/presentations/:id（multipart，未提交的字段不修改）
func (h *PresentationHandler) Update(c *gin.Context) {
	var patch service.PresentationPatch
	if v, ok := c.GetPostForm("title"); ok {
		patch.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		patch.Description = &v
	}
	if v, ok := c.GetPostForm("type"); ok {
		t := model.PresentationType(v)
		patch.Type = &t
	}

	file, closeFile, err := optionalUpload(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFile()
	thumb, closeThumb, err := optionalUpload(c, "thumbnail")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeThumb()

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch, file, thumb)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete DELETE /admin/api/presentations/:id
func (h *PresentationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PresentationHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrPresentationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "presentation not found"})
	case errors.Is(err, service.ErrInvalidPresentation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error("presentation request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func openUpload(fh *multipart.FileHeader) (service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, func() {}, err
	}
	return service.Upload{Name: fh.Filename, Size: fh.Size, Reader: f}, func() { _ = f.Close() }, nil
}

// optionalUpload 字段不存在时返回 nil
func optionalUpload(c *gin.Context, field string) (*service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, err
	}
	up, closeFn, err := openUpload(fh)
	if err != nil {
		return nil, closeFn, err
	}
	return &up, closeFn, nil
}
