package interfaces

import (
	"context"
	"time"

	"CivicPortal/internal/model"
	"CivicPortal/internal/repository"
)

// EventRepository 活动相关的数据库操作接口
type EventRepository interface {
	ListEvents(ctx context.Context) ([]*model.Event, error)
	ListEventTags(ctx context.Context, eventIDs []string) ([]repository.EventTagRow, error)
	CreateEventWithTags(ctx context.Context, event *model.Event, tags []model.Tag) error
	DeleteEvent(ctx context.Context, id string) error
}

// EventStore 上层（视图、对话、导入）使用的活动存取接口
type EventStore interface {
	// FetchEvents 全量活动（已还原标签）
	FetchEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, title, description string, date time.Time, category model.Category, area model.Area) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
