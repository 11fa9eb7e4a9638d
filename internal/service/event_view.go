package service

import (
	"context"
	"sync"
	"time"

	"CivicPortal/internal/interfaces"
	"CivicPortal/internal/model"

	"github.com/sirupsen/logrus"
)

// ViewSnapshot 当前筛选/排序下的派生数据
type ViewSnapshot struct {
	Events []model.Event `json:"events"`
	ByDate EventsByDate  `json:"by_date"`
	Error  string        `json:"error,omitempty"`
}

// EventView 持有权威活动集合与当前筛选/排序；派生数据每次从头计算。
// 每个消费方持有自己的 EventView
type EventView struct {
	store  interfaces.EventStore
	loc    *time.Location
	logger *logrus.Logger

	mu      sync.Mutex
	events  []model.Event
	filter  model.EventFilter
	sort    model.SortOption
	issued  uint64 // 已发出的最大请求序号
	applied uint64 // 已落地的最大请求序号
	loadErr string
}

func NewEventView(store interfaces.EventStore, loc *time.Location, logger *logrus.Logger) *EventView {
	return &EventView{
		store:  store,
		loc:    loc,
		logger: logger,
		sort:   model.DefaultSortOption(),
	}
}

// Refresh 重新拉取。较早发出的请求若晚于较新的请求返回，则丢弃其结果
func (v *EventView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	v.issued++
	seq := v.issued
	v.mu.Unlock()

	events, err := v.store.FetchEvents(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq < v.applied {
		v.logger.WithFields(logrus.Fields{"seq": seq, "applied": v.applied}).Debug("丢弃过期的拉取结果")
		return nil
	}
	v.applied = seq
	if err != nil {
		v.loadErr = FetchFailedMessage
		return err
	}
	v.loadErr = ""
	v.events = events
	return nil
}

func (v *EventView) SetFilter(f model.EventFilter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
}

func (v *EventView) SetSort(o model.SortOption) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = o.Normalize()
}

// Snapshot groupByDay(sort(filter(events, F), S))
func (v *EventView) Snapshot() ViewSnapshot {
	v.mu.Lock()
	events, filter, sortOpt, loadErr := v.events, v.filter, v.sort, v.loadErr
	v.mu.Unlock()

	sorted := ApplySort(ApplyFilter(events, filter), sortOpt)
	return ViewSnapshot{
		Events: sorted,
		ByDate: GroupByDate(sorted, v.loc),
		Error:  loadErr,
	}
}

// Create 存储确认后才追加到内存集合
func (v *EventView) Create(ctx context.Context, title, description string, date time.Time, category model.Category, area model.Area) (model.Event, error) {
	e, err := v.store.CreateEvent(ctx, title, description, date, category, area)
	if err != nil {
		return model.Event{}, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	next := make([]model.Event, 0, len(v.events)+1)
	next = append(next, v.events...)
	v.events = append(next, e)
	return e, nil
}

// Delete 存储确认后才从内存集合移除
func (v *EventView) Delete(ctx context.Context, id string) error {
	if err := v.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	next := make([]model.Event, 0, len(v.events))
	for _, e := range v.events {
		if e.ID != id {
			next = append(next, e)
		}
	}
	v.events = next
	return nil
}
