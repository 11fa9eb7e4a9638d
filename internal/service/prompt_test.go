package service

import (
	"strings"
	"testing"

	"CivicPortal/internal/config"
	"CivicPortal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTemplate() PromptTemplate {
	return NewPromptTemplate(config.PromptConfig{
		Introduction:     "INTRO",
		ImportanceNotice: "NOTICE",
		UpcomingSection:  "UPCOMING {{current_date}}\n{{events}}",
		PastSection:      "PAST\n{{events}}",
		GuidelinesHeader: "GUIDE",
		Guidelines:       []string{"g1", "g2"},
		Footer:           "FOOTER",
		NoUpcoming:       "NO-UPCOMING",
		NoPast:           "NO-PAST",
	})
}

func TestBuildSystemPrompt_EmptyReturnsFallback(t *testing.T) {
	got := BuildSystemPrompt(nil, jst(2024, 12, 18, 12, 0), testTemplate(), tokyo(t))
	assert.Equal(t, NoEventsFallback, got)
	assert.NotContains(t, got, "UPCOMING")
}

func TestBuildSystemPrompt_DecemberScenario(t *testing.T) {
	now := jst(2024, 12, 18, 12, 0)
	got := BuildSystemPrompt(decemberEvents(), now, testTemplate(), tokyo(t))

	want := strings.Join([]string{
		"INTRO",
		"NOTICE",
		"UPCOMING 2024年12月18日(水)\n" +
			"- 2024年12月20日(金) title-b：desc-b（カテゴリ：法改正／地区：全地区）\n" +
			"- 2024年12月25日(水) title-c：desc-c（カテゴリ：お知らせ／地区：天竜）",
		"PAST\n- 2024年12月15日(日) title-a：desc-a（カテゴリ：イベント／地区：中央）",
		"GUIDE\n- g1\n- g2",
		"FOOTER",
	}, "\n\n")
	assert.Equal(t, want, got)
}

func TestBuildSystemPrompt_Bounded(t *testing.T) {
	loc := tokyo(t)
	now := jst(2024, 6, 15, 12, 0)
	var events []model.Event
	for i := 1; i <= 20; i++ {
		events = append(events,
			ev("f"+string(rune('A'+i)), now.AddDate(0, 0, i), now, model.CategoryEvent, model.AreaAll),
			ev("p"+string(rune('A'+i)), now.AddDate(0, 0, -i), now, model.CategoryNews, model.AreaAll),
		)
	}

	upcoming, past := PartitionEvents(events, now)
	require.Len(t, upcoming, MaxUpcomingEvents)
	require.Len(t, past, MaxPastEvents)
	assert.Equal(t, "fB", upcoming[0].ID)
	assert.Equal(t, "pB", past[0].ID)

	got := BuildSystemPrompt(events, now, testTemplate(), loc)
	assert.Equal(t, MaxUpcomingEvents+MaxPastEvents, strings.Count(got, "（カテゴリ："))
}

func TestBuildSystemPrompt_EmptyPartitionsUsePlaceholders(t *testing.T) {
	now := jst(2025, 1, 1, 0, 0)
	got := BuildSystemPrompt(decemberEvents(), now, testTemplate(), tokyo(t))
	assert.Contains(t, got, "UPCOMING 2025年1月1日(水)\nNO-UPCOMING")
	assert.NotContains(t, got, "NO-PAST")
}

func TestBuildSystemPrompt_BoundaryEventAtNowIsUpcoming(t *testing.T) {
	now := jst(2024, 12, 20, 0, 0)
	upcoming, past := PartitionEvents(decemberEvents(), now)
	assert.Equal(t, []string{"b", "c"}, ids(upcoming))
	assert.Equal(t, []string{"a"}, ids(past))
}

func TestBuildSystemPrompt_Pure(t *testing.T) {
	now := jst(2024, 12, 18, 12, 0)
	events := decemberEvents()
	first := BuildSystemPrompt(events, now, testTemplate(), tokyo(t))
	second := BuildSystemPrompt(events, now, testTemplate(), tokyo(t))
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b", "c"}, ids(events))
}

func TestFormatEventLine(t *testing.T) {
	loc := tokyo(t)
	e := ev("x", jst(2024, 12, 15, 14, 0), jst(2024, 12, 1, 0, 0), model.CategoryEvent, model.AreaCentral)
	e.Title = "防災訓練"
	e.Description = "市役所前広場"
	assert.Equal(t, "- 2024年12月15日(日) 14:00 防災訓練：市役所前広場（カテゴリ：イベント／地区：中央）", FormatEventLine(e, loc))

	e.Tags = nil
	e.Date = jst(2024, 12, 15, 0, 0)
	assert.Equal(t, "- 2024年12月15日(日) 防災訓練：市役所前広場（カテゴリ：未設定／地区：未設定）", FormatEventLine(e, loc))
}

func TestNewPromptTemplate_FromDefaults(t *testing.T) {
	cfg, err := config.LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	got := BuildSystemPrompt(decemberEvents(), jst(2024, 12, 18, 12, 0), NewPromptTemplate(cfg.Prompt), tokyo(t))
	assert.Contains(t, got, "【今後の予定（2024年12月18日(水)時点）】")
	assert.Contains(t, got, "- 日付と地区を明記して回答してください。")
}
