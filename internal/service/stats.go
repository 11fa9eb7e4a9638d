package service

import (
	"time"

	"CivicPortal/internal/model"
)

// EventStats 统计页数据
type EventStats struct {
	Total      int            `json:"total"`
	Upcoming   int            `json:"upcoming"`
	Past       int            `json:"past"`
	ByCategory map[string]int `json:"by_category"` // 键为显示名
	ByArea     map[string]int `json:"by_area"`
	ByMonth    map[string]int `json:"by_month"` // YYYY-MM（参考时区）
}

// ComputeStats 按分类、地区、月份计数；缺失标签归入未設定
func ComputeStats(events []model.Event, now time.Time, loc *time.Location) EventStats {
	stats := EventStats{
		Total:      len(events),
		ByCategory: make(map[string]int),
		ByArea:     make(map[string]int),
		ByMonth:    make(map[string]int),
	}
	for _, e := range events {
		if e.Date.Before(now) {
			stats.Past++
		} else {
			stats.Upcoming++
		}
		stats.ByCategory[e.CategoryLabel()]++
		stats.ByArea[e.AreaLabel()]++
		stats.ByMonth[e.Date.In(loc).Format("2006-01")]++
	}
	return stats
}
