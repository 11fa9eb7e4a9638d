package model

import (
	"time"
)

// Category 分类标签取值
type Category string

const (
	CategoryEvent Category = "event" // イベント
	CategoryLaw   Category = "law"   // 法改正
	CategoryNews  Category = "news"  // お知らせ
)

// Area 地区标签取值
type Area string

const (
	AreaAll     Area = "all"     // 全地区
	AreaTenryu  Area = "tenryu"  // 天竜
	AreaHamana  Area = "hamana"  // 浜名
	AreaCentral Area = "central" // 中央
)

// TagType 标签类型
type TagType string

const (
	TagTypeCategory TagType = "category"
	TagTypeArea     TagType = "area"
)

// UnspecifiedLabel 缺失或未知标签时的显示文本
const UnspecifiedLabel = "未設定"

var categoryLabels = map[Category]string{
	CategoryEvent: "イベント",
	CategoryLaw:   "法改正",
	CategoryNews:  "お知らせ",
}

var areaLabels = map[Area]string{
	AreaAll:     "全地区",
	AreaTenryu:  "天竜",
	AreaHamana:  "浜名",
	AreaCentral: "中央",
}

// Categories 所有合法分类（有序）
func Categories() []Category {
	return []Category{CategoryEvent, CategoryLaw, CategoryNews}
}

// Areas 所有合法地区（有序）
func Areas() []Area {
	return []Area{AreaAll, AreaTenryu, AreaHamana, AreaCentral}
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label 分类显示名，未知值返回 UnspecifiedLabel
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return UnspecifiedLabel
}

func (a Area) Valid() bool {
	_, ok := areaLabels[a]
	return ok
}

// Label 地区显示名，未知值返回 UnspecifiedLabel
func (a Area) Label() string {
	if l, ok := areaLabels[a]; ok {
		return l
	}
	return UnspecifiedLabel
}

// Event 市政活动/公告。Tags 不落 events 表，由 event_tags 关联还原
type Event struct {
	ID          string     `gorm:"column:id;primaryKey;type:varchar(36);comment:UUID主键" json:"id"`
	Title       string     `gorm:"column:title;type:varchar(256);not null;comment:标题" json:"title"`
	Description string     `gorm:"column:description;type:text;not null;comment:说明" json:"description"`
	Date        time.Time  `gorm:"column:date;not null;index;comment:举办时间" json:"date"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime;comment:创建时间" json:"createdAt"`
	UpdatedAt   *time.Time `gorm:"column:updated_at;comment:更新时间" json:"updatedAt,omitempty"`
	Tags        []Tag      `gorm:"-" json:"tags"`
}

// Tag 标签，(type, value) 唯一，多个活动共享同一行
type Tag struct {
	ID    string  `gorm:"column:id;primaryKey;type:varchar(36);comment:UUID主键" json:"id"`
	Name  string  `gorm:"column:name;type:varchar(64);not null;comment:显示名" json:"name"`
	Type  TagType `gorm:"column:type;type:varchar(16);not null;uniqueIndex:uk_tag_type_value;comment:category/area" json:"type"`
	Value string  `gorm:"column:value;type:varchar(32);not null;uniqueIndex:uk_tag_type_value;comment:枚举值" json:"value"`
}

// EventTag 活动与标签的关联
type EventTag struct {
	EventID string `gorm:"column:event_id;primaryKey;type:varchar(36)"`
	TagID   string `gorm:"column:tag_id;primaryKey;type:varchar(36)"`
}

func (Event) TableName() string    { return "events" }
func (Tag) TableName() string      { return "tags" }
func (EventTag) TableName() string { return "event_tags" }

// tagOf 返回第一个指定类型的标签；数据违反“每类至多一个”时取先出现者
func (e Event) tagOf(t TagType) (Tag, bool) {
	for _, tag := range e.Tags {
		if tag.Type == t {
			return tag, true
		}
	}
	return Tag{}, false
}

// CategoryTag 分类标签
func (e Event) CategoryTag() (Tag, bool) { return e.tagOf(TagTypeCategory) }

// AreaTag 地区标签
func (e Event) AreaTag() (Tag, bool) { return e.tagOf(TagTypeArea) }

// Category 分类值，缺失时返回空串
func (e Event) Category() Category {
	if tag, ok := e.CategoryTag(); ok {
		return Category(tag.Value)
	}
	return ""
}

// Area 地区值，缺失时返回空串
func (e Event) Area() Area {
	if tag, ok := e.AreaTag(); ok {
		return Area(tag.Value)
	}
	return ""
}

func (e Event) CategoryLabel() string { return e.Category().Label() }

func (e Event) AreaLabel() string { return e.Area().Label() }

// HasTag 是否带有指定 (type, value) 中任一值的标签
func (e Event) HasTag(t TagType, values map[string]struct{}) bool {
	for _, tag := range e.Tags {
		if tag.Type != t {
			continue
		}
		if _, ok := values[tag.Value]; ok {
			return true
		}
	}
	return false
}

// NewCategoryTag 构造分类标签（ID 由仓储层分配）
func NewCategoryTag(c Category) Tag {
	return Tag{Name: c.Label(), Type: TagTypeCategory, Value: string(c)}
}

// NewAreaTag 构造地区标签（ID 由仓储层分配）
func NewAreaTag(a Area) Tag {
	return Tag{Name: a.Label(), Type: TagTypeArea, Value: string(a)}
}
