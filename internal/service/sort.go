package service

import (
	"sort"
	"time"

	"CivicPortal/internal/model"
)

// ApplySort 单键稳定排序，键相同保持输入顺序；返回新切片
func ApplySort(events []model.Event, option model.SortOption) []model.Event {
	option = option.Normalize()
	key := func(e model.Event) time.Time { return e.Date }
	if option.Key == model.SortByCreatedAt {
		key = func(e model.Event) time.Time { return e.CreatedAt }
	}

	result := make([]model.Event, len(events))
	copy(result, events)
	sort.SliceStable(result, func(i, j int) bool {
		a, b := key(result[i]), key(result[j])
		if option.Order == model.OrderDesc {
			return a.After(b)
		}
		return a.Before(b)
	})
	return result
}
