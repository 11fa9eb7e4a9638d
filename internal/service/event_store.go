package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"CivicPortal/internal/interfaces"
	"CivicPortal/internal/model"
	"CivicPortal/internal/monitoring"

	"github.com/sirupsen/logrus"
)

// FetchFailedMessage 面向用户的加载失败提示
const FetchFailedMessage = "イベントの取得に失敗しました"

// ErrInvalidEvent 新建活动参数不合法
var ErrInvalidEvent = errors.New("invalid event")

// FetchError 存储不可达或返回了畸形数据；调用方可重试
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", FetchFailedMessage, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// EventStoreService 活动存取：读取活动行并还原标签关联，新建/删除走仓储事务
type EventStoreService struct {
	repo   interfaces.EventRepository
	logger *logrus.Logger
}

func NewEventStoreService(repo interfaces.EventRepository, logger *logrus.Logger) *EventStoreService {
	return &EventStoreService{repo: repo, logger: logger}
}

// FetchEvents 按举办时间升序返回全部活动
func (s *EventStoreService) FetchEvents(ctx context.Context) ([]model.Event, error) {
	events, err := s.fetchEvents(ctx)
	if err != nil {
		monitoring.ObserveFetch(false)
		s.logger.WithError(err).Error("FetchEvents failed")
		return nil, &FetchError{Err: err}
	}
	monitoring.ObserveFetch(true)
	return events, nil
}

func (s *EventStoreService) fetchEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("拉取活动失败: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	tagRows, err := s.repo.ListEventTags(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("拉取活动标签失败: %w", err)
	}

	// 标签按活动 ID 分组
	tagsByEventID := make(map[string][]model.Tag, len(rows))
	for _, tr := range tagRows {
		t := model.TagType(tr.Type)
		if t != model.TagTypeCategory && t != model.TagTypeArea {
			return nil, fmt.Errorf("未知的标签类型 %q, tag_id: %s", tr.Type, tr.TagID)
		}
		tagsByEventID[tr.EventID] = append(tagsByEventID[tr.EventID], model.Tag{
			ID:    tr.TagID,
			Name:  tr.Name,
			Type:  t,
			Value: tr.Value,
		})
	}

	events := make([]model.Event, 0, len(rows))
	for _, r := range rows {
		if r.Date.IsZero() || r.CreatedAt.IsZero() {
			return nil, fmt.Errorf("活动时间缺失, id: %s", r.ID)
		}
		e := *r
		e.Tags = tagsByEventID[r.ID]
		if e.Tags == nil {
			e.Tags = []model.Tag{}
		}
		events = append(events, e)
	}
	return events, nil
}

// CreateEvent 校验后在单事务内写入活动、解析或创建两个标签并建立关联
func (s *EventStoreService) CreateEvent(ctx context.Context, title, description string, date time.Time, category model.Category, area model.Area) (model.Event, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	switch {
	case title == "":
		return model.Event{}, fmt.Errorf("%w: 标题不能为空", ErrInvalidEvent)
	case description == "":
		return model.Event{}, fmt.Errorf("%w: 说明不能为空", ErrInvalidEvent)
	case date.IsZero():
		return model.Event{}, fmt.Errorf("%w: 日期不能为空", ErrInvalidEvent)
	case !category.Valid():
		return model.Event{}, fmt.Errorf("%w: 未知分类 %q", ErrInvalidEvent, category)
	case !area.Valid():
		return model.Event{}, fmt.Errorf("%w: 未知地区 %q", ErrInvalidEvent, area)
	}

	event := &model.Event{Title: title, Description: description, Date: date}
	tags := []model.Tag{model.NewCategoryTag(category), model.NewAreaTag(area)}
	if err := s.repo.CreateEventWithTags(ctx, event, tags); err != nil {
		s.logger.WithError(err).WithField("title", title).Error("CreateEvent failed")
		return model.Event{}, fmt.Errorf("创建活动失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"event_id": event.ID,
		"category": category,
		"area":     area,
	}).Info("活动创建成功")
	return *event, nil
}

// DeleteEvent 删除活动；标签行保留
func (s *EventStoreService) DeleteEvent(ctx context.Context, id string) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		s.logger.WithError(err).WithField("event_id", id).Error("DeleteEvent failed")
		return fmt.Errorf("删除活动失败: %w", err)
	}
	s.logger.WithField("event_id", id).Info("活动已删除")
	return nil
}
