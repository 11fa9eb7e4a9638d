package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"CivicPortal/internal/config"
	"CivicPortal/internal/interfaces"
	"CivicPortal/internal/model"
	"CivicPortal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler 市民端日历/活动查询接口
type EventHandler struct {
	store    interfaces.EventStore
	calendar config.CalendarConfig
	loc      *time.Location
	now      func() time.Time
	logger   *logrus.Logger
}

func NewEventHandler(store interfaces.EventStore, calendar config.CalendarConfig, loc *time.Location, now func() time.Time, logger *logrus.Logger) *EventHandler {
	return &EventHandler{store: store, calendar: calendar, loc: loc, now: now, logger: logger}
}

// loadView 每个请求一份视图，从存储全量拉取后再派生
func (h *EventHandler) loadView(c *gin.Context, filter model.EventFilter, sortOpt model.SortOption) (*service.ViewSnapshot, bool) {
	view := service.NewEventView(h.store, h.loc, h.logger)
	if err := view.Refresh(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("加载活动失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.FetchFailedMessage})
		return nil, false
	}
	view.SetFilter(filter)
	view.SetSort(sortOpt)
	snap := view.Snapshot()
	return &snap, true
}

// ListEvents 筛选+排序后的活动列表
// GET /api/events?categories=law,news&areas=all&sort=createdAt&order=desc
func (h *EventHandler) ListEvents(c *gin.Context) {
	filter, sortOpt, err := parseListQuery(c, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := h.loadView(c, filter, sortOpt)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": snap.Events})
}

type queryRequest struct {
	Filter json.RawMessage `json:"filter"`
	Sort   json.RawMessage `json:"sort"`
}

// QueryEvents 以配置对象形式传入筛选/排序
// POST /api/events/query {"filter":{"categories":["law"]},"sort":{"key":"createdAt","order":"desc"}}
func (h *EventHandler) QueryEvents(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	filter, err := model.ParseEventFilter(req.Filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sortOpt, err := model.ParseSortOption(req.Sort)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := h.loadView(c, filter, sortOpt)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Calendar 列表与按日分桶
// GET /api/calendar
func (h *EventHandler) Calendar(c *gin.Context) {
	filter, sortOpt, err := parseListQuery(c, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := h.loadView(c, filter, sortOpt)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Month 月历，默认当前月
// GET /api/calendar/month?year=2024&month=12
func (h *EventHandler) Month(c *gin.Context) {
	today := h.now().In(h.loc)
	year, month := today.Year(), int(today.Month())
	if s := c.Query("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 9999 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = v
	}
	if s := c.Query("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		month = v
	}

	filter, sortOpt, err := parseListQuery(c, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := h.loadView(c, filter, sortOpt)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, service.BuildMonthGrid(year, time.Month(month), h.loc, snap.ByDate))
}

// Day 某一天的活动
// GET /api/calendar/day/:day
func (h *EventHandler) Day(c *gin.Context) {
	day := c.Param("day")
	if _, err := service.ParseDayKey(day, h.loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter, sortOpt, err := parseListQuery(c, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := h.loadView(c, filter, sortOpt)
	if !ok {
		return
	}
	events := snap.ByDate.On(day)
	if events == nil {
		events = []model.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"day": day, "events": events})
}

// ICS iCalendar 订阅源
// GET /api/calendar.ics?categories=event&areas=central
func (h *EventHandler) ICS(c *gin.Context) {
	filter, sortOpt, err := parseListQuery(c, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := h.loadView(c, filter, sortOpt)
	if !ok {
		return
	}
	body := service.RenderICS(snap.Events, service.ICSOptions{
		Name:     h.calendar.ICSName,
		Domain:   h.calendar.ICSDomain,
		Location: h.loc,
		Now:      h.now(),
	})
	c.Header("Content-Disposition", `inline; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
