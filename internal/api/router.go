package api

import (
	"time"

	"CivicPortal/internal/config"
	"CivicPortal/internal/interfaces"
	"CivicPortal/internal/repository"
	"CivicPortal/internal/service"
	"CivicPortal/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Dependencies 路由所需的全部组件
type Dependencies struct {
	Config        *config.Config
	Location      *time.Location
	Store         interfaces.EventStore
	Chat          *service.ChatService
	Importer      *service.CSVImporter
	Imports       *repository.ImportRepository
	Presentations *service.PresentationService
	Photos        *service.PhotoService
	Files         *storage.LocalStorage // 为 nil 时不挂载静态文件
	PhotoFiles    *storage.LocalStorage
	Now           func() time.Time
	Logger        *logrus.Logger
}

// NewRouter 创建 gin 引擎并注册全部路由
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	cfg := deps.Config

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(deps.Logger))
	r.Use(cors.New(corsConfig(cfg.Server.AllowOrigins)))

	// 注册ppof 方便调试和监测性能问题
	pprof.Register(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	if deps.Files != nil {
		r.Static(deps.Files.PublicPrefix(), deps.Files.Dir())
	}
	if deps.PhotoFiles != nil {
		r.Static(deps.PhotoFiles.PublicPrefix(), deps.PhotoFiles.Dir())
	}

	eventHandler := NewEventHandler(deps.Store, cfg.Calendar, deps.Location, deps.Now, deps.Logger)
	portalHandler := NewPortalHandler(deps.Store, deps.Location, deps.Now, deps.Logger)
	chatHandler := NewChatHandler(deps.Chat, deps.Logger)
	adminHandler := NewAdminHandler(cfg.Admin, deps.Store, deps.Importer, deps.Imports, deps.Location, deps.Logger)
	presentationHandler := NewPresentationHandler(deps.Presentations, deps.Logger)
	photoHandler := NewPhotoHandler(deps.Photos, deps.Logger)

	// 市民端
	public := r.Group("/api")
	public.GET("/events", eventHandler.ListEvents)
	public.POST("/events/query", eventHandler.QueryEvents)
	public.GET("/calendar", eventHandler.Calendar)
	public.GET("/calendar/month", eventHandler.Month)
	public.GET("/calendar/day/:day", eventHandler.Day)
	public.GET("/calendar.ics", eventHandler.ICS)
	public.GET("/fortune", portalHandler.Fortune)
	public.GET("/statistics", portalHandler.Statistics)
	public.POST("/chat", chatHandler.Chat)
	public.GET("/presentations", presentationHandler.List)
	public.GET("/presentations/:id", presentationHandler.Get)
	public.GET("/photos", photoHandler.List)

	// 管理后台
	r.POST("/admin/api/login", adminHandler.Login)
	admin := r.Group("/admin/api", adminHandler.AdminAuth())
	admin.POST("/logout", adminHandler.Logout)
	admin.POST("/events", adminHandler.CreateEvent)
	admin.DELETE("/events/:id", adminHandler.DeleteEvent)
	admin.POST("/events/import", adminHandler.ImportEvents)
	admin.GET("/events/imports", adminHandler.ListImports)
	admin.GET("/chat/prompt", chatHandler.PromptPreview)
	admin.POST("/presentations", presentationHandler.Create)
	admin.PUT("/presentations/:id", presentationHandler.Update)
	admin.DELETE("/presentations/:id", presentationHandler.Delete)
	admin.POST("/photos", photoHandler.Upload)
	admin.DELETE("/photos/:id", photoHandler.Delete)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if c.Writer.Status() >= 500 {
			entry.Error("request failed")
			return
		}
		entry.Debug("request")
	}
}
