package service

import (
	"fmt"
	"strings"
	"time"

	"CivicPortal/internal/config"
	"CivicPortal/internal/model"
)

const (
	// MaxUpcomingEvents 提示中今后活动的上限
	MaxUpcomingEvents = 5
	// MaxPastEvents 提示中近期结束活动的上限
	MaxPastEvents = 3

	// NoEventsFallback 没有任何活动时直接返回的固定提示
	NoEventsFallback = "現在、イベント情報はありません。"

	placeholderCurrentDate = "{{current_date}}"
	placeholderEvents      = "{{events}}"
)

var weekdayLabels = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// PromptTemplate 系统提示模板
type PromptTemplate struct {
	Introduction     string
	ImportanceNotice string
	UpcomingSection  string
	PastSection      string
	GuidelinesHeader string
	Guidelines       []string
	Footer           string
	NoUpcoming       string
	NoPast           string
}

// NewPromptTemplate 由配置构造模板
func NewPromptTemplate(cfg config.PromptConfig) PromptTemplate {
	return PromptTemplate{
		Introduction:     cfg.Introduction,
		ImportanceNotice: cfg.ImportanceNotice,
		UpcomingSection:  cfg.UpcomingSection,
		PastSection:      cfg.PastSection,
		GuidelinesHeader: cfg.GuidelinesHeader,
		Guidelines:       append([]string(nil), cfg.Guidelines...),
		Footer:           cfg.Footer,
		NoUpcoming:       cfg.NoUpcoming,
		NoPast:           cfg.NoPast,
	}
}

// PartitionEvents 今后（date >= now，升序，前 5 条）与近期结束（date < now，降序，前 3 条）
func PartitionEvents(events []model.Event, now time.Time) (upcoming, recentPast []model.Event) {
	var future, past []model.Event
	for _, e := range events {
		if e.Date.Before(now) {
			past = append(past, e)
		} else {
			future = append(future, e)
		}
	}
	upcoming = ApplySort(future, model.SortOption{Key: model.SortByDate, Order: model.OrderAsc})
	recentPast = ApplySort(past, model.SortOption{Key: model.SortByDate, Order: model.OrderDesc})
	if len(upcoming) > MaxUpcomingEvents {
		upcoming = upcoming[:MaxUpcomingEvents]
	}
	if len(recentPast) > MaxPastEvents {
		recentPast = recentPast[:MaxPastEvents]
	}
	return upcoming, recentPast
}

// FormatDate 2024年12月15日(日)
func FormatDate(t time.Time, loc *time.Location) string {
	lt := t.In(loc)
	return fmt.Sprintf("%d年%d月%d日(%s)", lt.Year(), int(lt.Month()), lt.Day(), weekdayLabels[lt.Weekday()])
}

// FormatEventLine 单条活动的可读文本；当地 0 点视为全天，不显示时刻
func FormatEventLine(e model.Event, loc *time.Location) string {
	when := FormatDate(e.Date, loc)
	if !IsAllDay(e.Date, loc) {
		when += " " + e.Date.In(loc).Format("15:04")
	}
	return fmt.Sprintf("- %s %s：%s（カテゴリ：%s／地区：%s）",
		when, e.Title, e.Description, e.CategoryLabel(), e.AreaLabel())
}

func formatEventBlock(events []model.Event, loc *time.Location, empty string) string {
	if len(events) == 0 {
		return empty
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, FormatEventLine(e, loc))
	}
	return strings.Join(lines, "\n")
}

// BuildSystemPrompt 纯函数：只使用传入的 now，不读系统时钟
func BuildSystemPrompt(events []model.Event, now time.Time, tmpl PromptTemplate, loc *time.Location) string {
	if len(events) == 0 {
		return NoEventsFallback
	}

	upcoming, recentPast := PartitionEvents(events, now)
	currentDate := FormatDate(now, loc)
	fill := func(section, block string) string {
		return strings.NewReplacer(
			placeholderCurrentDate, currentDate,
			placeholderEvents, block,
		).Replace(section)
	}

	var guidelines string
	if len(tmpl.Guidelines) > 0 {
		lines := make([]string, 0, len(tmpl.Guidelines)+1)
		if tmpl.GuidelinesHeader != "" {
			lines = append(lines, tmpl.GuidelinesHeader)
		}
		for _, g := range tmpl.Guidelines {
			lines = append(lines, "- "+g)
		}
		guidelines = strings.Join(lines, "\n")
	}

	sections := []string{
		fill(tmpl.Introduction, ""),
		fill(tmpl.ImportanceNotice, ""),
		fill(tmpl.UpcomingSection, formatEventBlock(upcoming, loc, tmpl.NoUpcoming)),
		fill(tmpl.PastSection, formatEventBlock(recentPast, loc, tmpl.NoPast)),
		guidelines,
		fill(tmpl.Footer, ""),
	}
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}
