package api

import (
	"net/http"
	"time"

	"CivicPortal/internal/interfaces"
	"CivicPortal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PortalHandler 今日运势与统计
type PortalHandler struct {
	store  interfaces.EventStore
	loc    *time.Location
	now    func() time.Time
	logger *logrus.Logger
}

func NewPortalHandler(store interfaces.EventStore, loc *time.Location, now func() time.Time, logger *logrus.Logger) *PortalHandler {
	return &PortalHandler{store: store, loc: loc, now: now, logger: logger}
}

// Fortune GET /api/fortune?date=YYYY-MM-DD（默认今天）
func (h *PortalHandler) Fortune(c *gin.Context) {
	day := c.Query("date")
	if day == "" {
		day = service.DayKey(h.now(), h.loc)
	} else if _, err := service.ParseDayKey(day, h.loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, service.DailyFortune(day))
}

// Statistics GET /api/statistics
func (h *PortalHandler) Statistics(c *gin.Context) {
	events, err := h.store.FetchEvents(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Statistics failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.FetchFailedMessage})
		return
	}
	c.JSON(http.StatusOK, service.ComputeStats(events, h.now(), h.loc))
}
