package service

import (
	"testing"
	"time"

	"CivicPortal/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestApplyFilter_DecemberScenario(t *testing.T) {
	events := decemberEvents()

	got := ApplyFilter(events, model.EventFilter{Categories: []model.Category{model.CategoryLaw}})
	assert.Equal(t, []string{"b"}, ids(got))
}

func TestApplyFilter_EmptyFilterMatchesAll(t *testing.T) {
	events := decemberEvents()
	got := ApplyFilter(events, model.EventFilter{})
	assert.Equal(t, ids(events), ids(got))
}

func TestApplyFilter_OrWithinAndAcross(t *testing.T) {
	created := jst(2024, 1, 1, 0, 0)
	events := []model.Event{
		ev("1", jst(2024, 3, 1, 10, 0), created, model.CategoryEvent, model.AreaCentral),
		ev("2", jst(2024, 3, 2, 10, 0), created, model.CategoryLaw, model.AreaCentral),
		ev("3", jst(2024, 3, 3, 10, 0), created, model.CategoryNews, model.AreaHamana),
		ev("4", jst(2024, 3, 4, 10, 0), created, model.CategoryLaw, model.AreaTenryu),
		ev("5", jst(2024, 3, 5, 10, 0), created, model.CategoryEvent, model.AreaAll),
	}

	filter := model.EventFilter{
		Categories: []model.Category{model.CategoryEvent, model.CategoryLaw},
		Areas:      []model.Area{model.AreaCentral, model.AreaTenryu},
	}
	got := ApplyFilter(events, filter)
	assert.Equal(t, []string{"1", "2", "4"}, ids(got))

	// 与逐条判断谓词的结果一致
	for _, e := range events {
		inCat := e.Category() == model.CategoryEvent || e.Category() == model.CategoryLaw
		inArea := e.Area() == model.AreaCentral || e.Area() == model.AreaTenryu
		assert.Equal(t, inCat && inArea, containsID(got, e.ID), e.ID)
	}
}

func TestApplyFilter_MissingTagExcludedWhenFacetActive(t *testing.T) {
	untagged := model.Event{ID: "x", Title: "t", Description: "d", Date: jst(2024, 5, 1, 0, 0), Tags: []model.Tag{}}

	assert.Empty(t, ApplyFilter([]model.Event{untagged}, model.EventFilter{Areas: []model.Area{model.AreaAll}}))
	assert.Len(t, ApplyFilter([]model.Event{untagged}, model.EventFilter{}), 1)
}

func TestApplyFilter_DateWindowInclusive(t *testing.T) {
	events := decemberEvents()
	start := jst(2024, 12, 15, 0, 0)
	end := jst(2024, 12, 20, 0, 0)

	got := ApplyFilter(events, model.EventFilter{StartDate: &start, EndDate: &end})
	assert.Equal(t, []string{"a", "b"}, ids(got))

	later := end.Add(time.Nanosecond)
	got = ApplyFilter(events, model.EventFilter{StartDate: &later})
	assert.Equal(t, []string{"c"}, ids(got))
}

func TestApplyFilter_DoesNotMutateInput(t *testing.T) {
	events := decemberEvents()
	before := ids(events)
	got := ApplyFilter(events, model.EventFilter{Categories: []model.Category{model.CategoryNews}})
	got[0].Title = "changed"

	assert.Equal(t, before, ids(events))
	assert.Equal(t, "title-c", events[2].Title)
}

func containsID(events []model.Event, id string) bool {
	for _, e := range events {
		if e.ID == id {
			return true
		}
	}
	return false
}
