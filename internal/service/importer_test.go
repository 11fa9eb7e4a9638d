package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"CivicPortal/internal/config"
	"CivicPortal/internal/database"
	"CivicPortal/internal/model"
	"CivicPortal/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, logger.Silent, quietLogger())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestCSVImporter_ImportsValidRowsAndRecordsErrors(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	loc := tokyo(t)
	store := NewEventStoreService(repository.NewEventRepository(db), quietLogger())
	imports := repository.NewImportRepository(db)
	importer := NewCSVImporter(store, imports, loc, quietLogger())

	csv := "\ufefftitle,description,date,category,area\n" +
		"防災訓練,市役所前広場,2024-12-15 10:00,event,central\n" +
		"条例改正,ごみ分別,2024-12-20,law,all\n" +
		"\n" +
		"壊れた行,説明,not-a-date,news,tenryu\n" +
		"地区外,説明,2024-12-25,news,osaka\n" +
		"お知らせ,年末年始,2024-12-28T09:00:00+09:00,news,hamana\n"

	batch, err := importer.Import(ctx, "events.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 5, batch.Total)
	assert.Equal(t, 3, batch.Succeeded)
	assert.Equal(t, 2, batch.Failed)
	assert.NotEmpty(t, batch.ID)

	var rowErrors []model.ImportRowError
	require.NoError(t, json.Unmarshal(batch.Errors, &rowErrors))
	require.Len(t, rowErrors, 2)
	assert.Equal(t, 5, rowErrors[0].Line)
	assert.Equal(t, 6, rowErrors[1].Line)

	events, err := store.FetchEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "防災訓練", events[0].Title)
	assert.Equal(t, "2024-12-15", DayKey(events[0].Date, loc))
	assert.Equal(t, "10:00", events[0].Date.In(loc).Format("15:04"))
	assert.Equal(t, model.AreaHamana, events[2].Area())

	recent, err := imports.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "events.csv", recent[0].FileName)
}

func TestCSVImporter_MissingColumn(t *testing.T) {
	db := setupTestDB(t)
	store := NewEventStoreService(repository.NewEventRepository(db), quietLogger())
	importer := NewCSVImporter(store, repository.NewImportRepository(db), tokyo(t), quietLogger())

	_, err := importer.Import(context.Background(), "bad.csv", strings.NewReader("title,date\nx,2024-01-01\n"))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestParseEventDate(t *testing.T) {
	loc := tokyo(t)
	cases := map[string]string{
		"2024-12-15":                "2024-12-15T00:00:00+09:00",
		"2024/12/15 18:30":          "2024-12-15T18:30:00+09:00",
		"2024-12-15T01:00:00Z":      "2024-12-15T10:00:00+09:00",
		"2024-12-15T10:00:00+09:00": "2024-12-15T10:00:00+09:00",
	}
	for in, want := range cases {
		got, err := ParseEventDate(in, loc)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.In(loc).Format("2006-01-02T15:04:05-07:00"), in)
	}

	_, err := ParseEventDate("", loc)
	assert.ErrorIs(t, err, ErrInvalidEvent)
	_, err = ParseEventDate("15 Dec", loc)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}
