package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"CivicPortal/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ev 构造带分类/地区标签的活动；date 为东京时间
func ev(id string, date, createdAt time.Time, c model.Category, a model.Area) model.Event {
	return model.Event{
		ID:          id,
		Title:       "title-" + id,
		Description: "desc-" + id,
		Date:        date,
		CreatedAt:   createdAt,
		Tags:        []model.Tag{model.NewCategoryTag(c), model.NewAreaTag(a)},
	}
}

func jst(y int, m time.Month, d, hh, mm int) time.Time {
	loc, _ := time.LoadLocation("Asia/Tokyo")
	return time.Date(y, m, d, hh, mm, 0, 0, loc)
}

// decemberEvents 2024-12-15 event/central, 2024-12-20 law/all, 2024-12-25 news/tenryu
func decemberEvents() []model.Event {
	created := jst(2024, 11, 1, 9, 0)
	return []model.Event{
		ev("a", jst(2024, 12, 15, 0, 0), created, model.CategoryEvent, model.AreaCentral),
		ev("b", jst(2024, 12, 20, 0, 0), created.Add(time.Hour), model.CategoryLaw, model.AreaAll),
		ev("c", jst(2024, 12, 25, 0, 0), created.Add(2*time.Hour), model.CategoryNews, model.AreaTenryu),
	}
}

func ids(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

// MockEventStore interfaces.EventStore 的 testify mock
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) FetchEvents(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]model.Event)
	return events, args.Error(1)
}

func (m *MockEventStore) CreateEvent(ctx context.Context, title, description string, date time.Time, category model.Category, area model.Area) (model.Event, error) {
	args := m.Called(ctx, title, description, date, category, area)
	e, _ := args.Get(0).(model.Event)
	return e, args.Error(1)
}

func (m *MockEventStore) DeleteEvent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockCompletionClient interfaces.CompletionClient 的 testify mock
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Name() string { return "mock" }

func (m *MockCompletionClient) Complete(ctx context.Context, systemPrompt, message string) (string, error) {
	args := m.Called(ctx, systemPrompt, message)
	return args.String(0), args.Error(1)
}

// gatedStore 每次 FetchEvents 依次取出一个响应，并在对应的 gate 关闭后才返回
type gatedStore struct {
	mu        sync.Mutex
	calls     int
	responses [][]model.Event
	gates     []chan struct{}
	started   chan int
}

func newGatedStore(responses ...[]model.Event) *gatedStore {
	s := &gatedStore{responses: responses, started: make(chan int, len(responses))}
	for range responses {
		s.gates = append(s.gates, make(chan struct{}))
	}
	return s
}

func (s *gatedStore) FetchEvents(ctx context.Context) ([]model.Event, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	s.mu.Unlock()
	s.started <- i
	select {
	case <-s.gates[i]:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.responses[i], nil
}

func (s *gatedStore) CreateEvent(context.Context, string, string, time.Time, model.Category, model.Area) (model.Event, error) {
	panic("not used")
}

func (s *gatedStore) DeleteEvent(context.Context, string) error { panic("not used") }
