package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"time"

	"CivicPortal/internal/config"
	"CivicPortal/internal/interfaces"
	"CivicPortal/internal/model"
	"CivicPortal/internal/repository"
	"CivicPortal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const adminCookieMaxAge = 12 * 60 * 60

// AdminHandler 管理后台：登录、活动维护、CSV 导入
type AdminHandler struct {
	cfg      config.AdminConfig
	store    interfaces.EventStore
	importer *service.CSVImporter
	imports  *repository.ImportRepository
	loc      *time.Location
	logger   *logrus.Logger
}

func NewAdminHandler(cfg config.AdminConfig, store interfaces.EventStore, importer *service.CSVImporter, imports *repository.ImportRepository, loc *time.Location, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{cfg: cfg, store: store, importer: importer, imports: imports, loc: loc, logger: logger}
}

func (h *AdminHandler) configured() bool {
	return h.cfg.Password != "" && h.cfg.Token != ""
}

// AdminAuth Cookie 值与配置的 token 相等才放行
func (h *AdminHandler) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.configured() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin is not configured"})
			return
		}
		token, err := c.Cookie(h.cfg.CookieName)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.Token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login POST /admin/api/login {password}
func (h *AdminHandler) Login(c *gin.Context) {
	if !h.configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin is not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.Password)) != 1 {
		h.logger.WithField("ip", c.ClientIP()).Warn("管理后台登录失败")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, h.cfg.Token, adminCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Logout POST /admin/api/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type createEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // RFC3339 或参考时区 YYYY-MM-DD[ HH:MM]
	Category    string `json:"category"`
	Area        string `json:"area"`
}

// CreateEvent POST /admin/api/events
func (h *AdminHandler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := service.ParseEventDate(req.Date, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, err := h.store.CreateEvent(c.Request.Context(), req.Title, req.Description, date,
		model.Category(req.Category), model.Area(req.Area))
	if err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "イベントの作成に失敗しました"})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// DeleteEvent DELETE /admin/api/events/:id
func (h *AdminHandler) DeleteEvent(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteEvent(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "イベントの削除に失敗しました"})
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportEvents POST /admin/api/events/import（multipart, 字段 file）
func (h *AdminHandler) ImportEvents(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	batch, err := h.importer.Import(c.Request.Context(), fh.Filename, f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEvent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("ImportEvents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "CSVの取り込みに失敗しました"})
		return
	}
	c.JSON(http.StatusOK, batch)
}

// ListImports GET /admin/api/events/imports?limit=20
func (h *AdminHandler) ListImports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, err := h.imports.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("ListImports failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": list})
}
