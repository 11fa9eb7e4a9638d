package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// SortKey 排序键
type SortKey string

const (
	SortByDate      SortKey = "date"
	SortByCreatedAt SortKey = "createdAt"
)

// SortOrder 排序方向
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// EventFilter 查询条件，空切片/nil 表示该维度不限制
type EventFilter struct {
	Categories []Category `json:"categories,omitempty"`
	Areas      []Area     `json:"areas,omitempty"`
	StartDate  *time.Time `json:"startDate,omitempty"` // 含
	EndDate    *time.Time `json:"endDate,omitempty"`   // 含
}

// SortOption 单键排序
type SortOption struct {
	Key   SortKey   `json:"key"`
	Order SortOrder `json:"order"`
}

// DefaultSortOption 日期升序
func DefaultSortOption() SortOption {
	return SortOption{Key: SortByDate, Order: OrderAsc}
}

// Normalize 未知键或方向回落到默认值
func (o SortOption) Normalize() SortOption {
	if o.Key != SortByDate && o.Key != SortByCreatedAt {
		o.Key = SortByDate
	}
	if o.Order != OrderAsc && o.Order != OrderDesc {
		o.Order = OrderAsc
	}
	return o
}

// ParseEventFilter 解析筛选配置对象，忽略未识别的字段
func ParseEventFilter(data []byte) (EventFilter, error) {
	var f EventFilter
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return EventFilter{}, fmt.Errorf("解析筛选条件失败: %w", err)
	}
	return f, nil
}

// ParseSortOption 解析排序配置对象，忽略未识别的字段
func ParseSortOption(data []byte) (SortOption, error) {
	if len(data) == 0 {
		return DefaultSortOption(), nil
	}
	var o SortOption
	if err := json.Unmarshal(data, &o); err != nil {
		return SortOption{}, fmt.Errorf("解析排序条件失败: %w", err)
	}
	return o.Normalize(), nil
}
