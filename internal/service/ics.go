package service

import (
	"fmt"
	"time"

	"CivicPortal/internal/model"

	ics "github.com/arran4/golang-ical"
)

// ICSOptions 订阅源参数
type ICSOptions struct {
	Name     string
	Domain   string // UID 后缀
	Location *time.Location
	Now      time.Time // DTSTAMP
}

// RenderICS 把（已筛选排序的）活动输出为 iCalendar 订阅源
func RenderICS(events []model.Event, opts ICSOptions) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//CivicPortal//Event Calendar//JA")
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	} else {
		cal.SetXWRTimezone(loc.String())
	}

	for _, e := range events {
		ev := cal.AddEvent(fmt.Sprintf("%s@%s", e.ID, opts.Domain))
		ev.SetDtStampTime(opts.Now)
		ev.SetCreatedTime(e.CreatedAt)
		if IsAllDay(e.Date, loc) {
			// DATE 值按当地日期输出，DTEND 为次日（不含）
			day := e.Date.In(loc)
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		} else {
			ev.SetStartAt(e.Date)
		}
		ev.SetSummary(e.Title)
		ev.SetDescription(e.Description)
		ev.SetLocation(e.AreaLabel())
		ev.AddProperty(ics.ComponentPropertyCategories, e.CategoryLabel())
	}
	return cal.Serialize()
}
