package repository

import (
	"context"
	"errors"
	"fmt"

	"CivicPortal/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEventNotFound 指定 ID 的活动不存在
var ErrEventNotFound = errors.New("event not found")

// EventTagRow event_tags ⋈ tags 的扁平结果
type EventTagRow struct {
	EventID string
	TagID   string
	Name    string
	Type    string
	Value   string
}

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListEvents 全部活动，按举办时间升序
func (r *EventRepository) ListEvents(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	if err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListEventTags 批量查询活动关联的标签
func (r *EventRepository) ListEventTags(ctx context.Context, eventIDs []string) ([]EventTagRow, error) {
	if len(eventIDs) == 0 {
		return []EventTagRow{}, nil
	}
	var rows []EventTagRow
	if err := r.db.WithContext(ctx).
		Table("event_tags").
		Select("event_tags.event_id, tags.id AS tag_id, tags.name, tags.type, tags.value").
		Joins("JOIN tags ON tags.id = event_tags.tag_id").
		Where("event_tags.event_id IN ?", eventIDs).
		Order("event_tags.event_id ASC, tags.type DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateEventWithTags 单事务内：写入活动 → 解析或创建每个标签 → 写入关联。任一步失败整体回滚
func (r *EventRepository) CreateEventWithTags(ctx context.Context, event *model.Event, tags []model.Tag) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 保存Event
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("保存Event失败: %w, title: %s", err, event.Title)
		}

		// 2. 解析或创建标签
		resolved := make([]model.Tag, 0, len(tags))
		links := make([]model.EventTag, 0, len(tags))
		for _, t := range tags {
			tag, err := resolveOrCreateTag(tx, t)
			if err != nil {
				return err
			}
			resolved = append(resolved, tag)
			links = append(links, model.EventTag{EventID: event.ID, TagID: tag.ID})
		}

		// 3. 关联
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return fmt.Errorf("保存event_tags失败: %w, event_id: %s", err, event.ID)
			}
		}
		event.Tags = resolved
		return nil
	})
}

// resolveOrCreateTag (type, value) 已存在则复用，否则插入；冲突时以库中记录为准
func resolveOrCreateTag(tx *gorm.DB, t model.Tag) (model.Tag, error) {
	candidate := model.Tag{ID: uuid.NewString(), Name: t.Name, Type: t.Type, Value: t.Value}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}, {Name: "value"}},
		DoNothing: true,
	}).Create(&candidate).Error; err != nil {
		return model.Tag{}, fmt.Errorf("保存Tag失败: %w, %s=%s", err, t.Type, t.Value)
	}
	var existing model.Tag
	if err := tx.Where("type = ? AND value = ?", t.Type, t.Value).First(&existing).Error; err != nil {
		return model.Tag{}, fmt.Errorf("查询Tag失败: %w, %s=%s", err, t.Type, t.Value)
	}
	return existing, nil
}

// DeleteEvent 删除活动及其关联；标签行保留（共享标签不回收）
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.EventTag{}).Error; err != nil {
			return fmt.Errorf("删除event_tags失败: %w, event_id: %s", err, id)
		}
		res := tx.Where("id = ?", id).Delete(&model.Event{})
		if res.Error != nil {
			return fmt.Errorf("删除Event失败: %w, id: %s", res.Error, id)
		}
		if res.RowsAffected == 0 {
			return ErrEventNotFound
		}
		return nil
	})
}

// CountTags 标签总数（运维与测试用）
func (r *EventRepository) CountTags(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Tag{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
