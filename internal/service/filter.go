package service

import (
	"CivicPortal/internal/model"
)

// ApplyFilter 维度内 OR、维度间 AND；空维度不限制。保持输入相对顺序，返回新切片
func ApplyFilter(events []model.Event, filter model.EventFilter) []model.Event {
	categories := toSet(filter.Categories)
	areas := toSet(filter.Areas)

	result := make([]model.Event, 0, len(events))
	for _, e := range events {
		if len(categories) > 0 && !e.HasTag(model.TagTypeCategory, categories) {
			continue
		}
		if len(areas) > 0 && !e.HasTag(model.TagTypeArea, areas) {
			continue
		}
		if filter.StartDate != nil && e.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && e.Date.After(*filter.EndDate) {
			continue
		}
		result = append(result, e)
	}
	return result
}

func toSet[T ~string](values []T) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[string(v)] = struct{}{}
	}
	return set
}
