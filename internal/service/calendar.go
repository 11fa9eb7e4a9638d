package service

import (
	"fmt"
	"sort"
	"time"

	"CivicPortal/internal/model"
)

// DayKeyLayout 日期键格式 YYYY-MM-DD
const DayKeyLayout = "2006-01-02"

// DayKey 参考时区下的日期键；所有按日读写都必须经过这里
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// ParseDayKey 把 YYYY-MM-DD 解析为参考时区当天 0 点
func ParseDayKey(day string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, day, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("日期格式应为 YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// EventsByDate 按日分桶的投影，每次重新计算，不做增量修改
type EventsByDate map[string][]model.Event

// GroupByDate 按参考时区的日期分桶，桶内保持上游排序
func GroupByDate(events []model.Event, loc *time.Location) EventsByDate {
	grouped := make(EventsByDate)
	for _, e := range events {
		key := DayKey(e.Date, loc)
		grouped[key] = append(grouped[key], e)
	}
	return grouped
}

// On 指定日期的活动
func (g EventsByDate) On(day string) []model.Event {
	return g[day]
}

// Keys 升序的日期键
func (g EventsByDate) Keys() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count 各桶活动总数
func (g EventsByDate) Count() int {
	n := 0
	for _, evs := range g {
		n += len(evs)
	}
	return n
}

// CalendarDay 月历中的一格
type CalendarDay struct {
	Day     string        `json:"day"`
	InMonth bool          `json:"in_month"`
	Events  []model.Event `json:"events"`
}

// MonthGrid 月历（周日起始），前后补齐到整周
type MonthGrid struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Weeks [][]CalendarDay `json:"weeks"`
}

// BuildMonthGrid 用与 GroupByDate 相同的键推导填充月历
func BuildMonthGrid(year int, month time.Month, loc *time.Location, byDate EventsByDate) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	last := first.AddDate(0, 1, -1)
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	grid := MonthGrid{Year: year, Month: int(month)}
	var week []CalendarDay
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := DayKey(d, loc)
		events := byDate.On(key)
		if events == nil {
			events = []model.Event{}
		}
		week = append(week, CalendarDay{Day: key, InMonth: d.Month() == month, Events: events})
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}
	return grid
}

// IsAllDay 当地 0 点的活动视为全天
func IsAllDay(t time.Time, loc *time.Location) bool {
	lt := t.In(loc)
	return lt.Hour() == 0 && lt.Minute() == 0
}
