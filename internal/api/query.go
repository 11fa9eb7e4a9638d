package api

import (
	"fmt"
	"strings"
	"time"

	"CivicPortal/internal/model"
	"CivicPortal/internal/service"

	"github.com/gin-gonic/gin"
)

// parseListQuery 解析 ?categories=law,news&areas=all&start=YYYY-MM-DD&end=YYYY-MM-DD&sort=date&order=asc
// start/end 是参考时区下的日期，end 包含当天
func parseListQuery(c *gin.Context, loc *time.Location) (model.EventFilter, model.SortOption, error) {
	var filter model.EventFilter
	for _, v := range splitCSV(c.Query("categories")) {
		filter.Categories = append(filter.Categories, model.Category(v))
	}
	for _, v := range splitCSV(c.Query("areas")) {
		filter.Areas = append(filter.Areas, model.Area(v))
	}

	if s := c.Query("start"); s != "" {
		t, err := service.ParseDayKey(s, loc)
		if err != nil {
			return filter, model.SortOption{}, fmt.Errorf("invalid start: %w", err)
		}
		filter.StartDate = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := service.ParseDayKey(s, loc)
		if err != nil {
			return filter, model.SortOption{}, fmt.Errorf("invalid end: %w", err)
		}
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}

	opt := model.SortOption{
		Key:   model.SortKey(c.DefaultQuery("sort", string(model.SortByDate))),
		Order: model.SortOrder(c.DefaultQuery("order", string(model.OrderAsc))),
	}
	return filter, opt.Normalize(), nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
