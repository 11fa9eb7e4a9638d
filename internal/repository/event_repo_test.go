package repository

import (
	"context"
	"testing"
	"time"

	"CivicPortal/internal/config"
	"CivicPortal/internal/database"
	"CivicPortal/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, logger.Silent, logrus.New())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newEvent(title string, date time.Time) *model.Event {
	return &model.Event{Title: title, Description: title + " の説明", Date: date}
}

func TestEventRepository_CreateAndList(t *testing.T) {
	repo := NewEventRepository(setupTestDB(t))
	ctx := context.Background()

	later := newEvent("later", time.Date(2024, 12, 20, 1, 0, 0, 0, time.UTC))
	earlier := newEvent("earlier", time.Date(2024, 12, 15, 1, 0, 0, 0, time.UTC))
	require.NoError(t, repo.CreateEventWithTags(ctx, later, []model.Tag{model.NewCategoryTag(model.CategoryLaw), model.NewAreaTag(model.AreaAll)}))
	require.NoError(t, repo.CreateEventWithTags(ctx, earlier, []model.Tag{model.NewCategoryTag(model.CategoryEvent), model.NewAreaTag(model.AreaCentral)}))

	assert.NotEmpty(t, later.ID)
	require.Len(t, later.Tags, 2)

	events, err := repo.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "earlier", events[0].Title)
	assert.Equal(t, "later", events[1].Title)
	assert.True(t, events[0].Date.Equal(earlier.Date))

	rows, err := repo.ListEventTags(ctx, []string{earlier.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "category", rows[0].Type)
	assert.Equal(t, "event", rows[0].Value)
	assert.Equal(t, "area", rows[1].Type)
	assert.Equal(t, "central", rows[1].Value)
}

func TestEventRepository_ReusesTagsByTypeAndValue(t *testing.T) {
	repo := NewEventRepository(setupTestDB(t))
	ctx := context.Background()
	tags := []model.Tag{model.NewCategoryTag(model.CategoryNews), model.NewAreaTag(model.AreaHamana)}

	a := newEvent("a", time.Now())
	b := newEvent("b", time.Now())
	require.NoError(t, repo.CreateEventWithTags(ctx, a, tags))
	require.NoError(t, repo.CreateEventWithTags(ctx, b, tags))

	n, err := repo.CountTags(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, a.Tags[0].ID, b.Tags[0].ID)
	assert.Equal(t, a.Tags[1].ID, b.Tags[1].ID)
}

func TestEventRepository_CreateRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	// 关联表缺失时第三步失败，活动行也不能留下
	require.NoError(t, db.Migrator().DropTable(&model.EventTag{}))

	err := repo.CreateEventWithTags(ctx, newEvent("broken", time.Now()), []model.Tag{model.NewCategoryTag(model.CategoryLaw)})
	require.Error(t, err)

	events, err := repo.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
	n, err := repo.CountTags(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEventRepository_DeleteKeepsTags(t *testing.T) {
	repo := NewEventRepository(setupTestDB(t))
	ctx := context.Background()

	e := newEvent("to-delete", time.Now())
	require.NoError(t, repo.CreateEventWithTags(ctx, e, []model.Tag{model.NewCategoryTag(model.CategoryLaw), model.NewAreaTag(model.AreaAll)}))
	require.NoError(t, repo.DeleteEvent(ctx, e.ID))

	events, err := repo.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)

	rows, err := repo.ListEventTags(ctx, []string{e.ID})
	require.NoError(t, err)
	assert.Empty(t, rows)

	n, err := repo.CountTags(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	assert.ErrorIs(t, repo.DeleteEvent(ctx, e.ID), ErrEventNotFound)
}

func TestPresentationRepository_CRUD(t *testing.T) {
	repo := NewPresentationRepository(setupTestDB(t))
	ctx := context.Background()

	p := &model.Presentation{Title: "予算説明", Type: model.PresentationSlide, FileURL: "/files/presentations/a.pdf"}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	require.NoError(t, repo.Update(ctx, p.ID, map[string]interface{}{"title": "予算説明（改訂）"}))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "予算説明（改訂）", got.Title)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrPresentationNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrPresentationNotFound)
}

func TestPhotoRepository_ListNewestFirst(t *testing.T) {
	repo := NewPhotoRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	older := &model.Photo{URL: "/files/photos/photos/a.png", StorageKey: "photos/a.png", CreatedAt: base}
	newer := &model.Photo{URL: "/files/photos/photos/b.png", StorageKey: "photos/b.png", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	dup := &model.Photo{URL: "/x", StorageKey: "photos/a.png"}
	assert.Error(t, repo.Create(ctx, dup))

	require.NoError(t, repo.Delete(ctx, older.ID))
	_, err = repo.GetByID(ctx, older.ID)
	assert.ErrorIs(t, err, ErrPhotoNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, older.ID), ErrPhotoNotFound)
}
