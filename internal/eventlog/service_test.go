package eventlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishIdle_Go/internal/database/memory"
	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/event"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// MockRepository is a mock implementation of repository.EventLog
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LogEvent(ctx context.Context, entry repository.EventLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	args := m.Called(ctx, filter)
	entries, _ := args.Get(0).([]repository.EventLogEntry)
	return entries, args.Error(1)
}

func (m *MockRepository) CleanupOldEvents(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventBus is a mock implementation of event.Bus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

func transferResult() domain.TransferResult {
	return domain.TransferResult{
		OwnerID:     "owner-1",
		Variant:     domain.NewVariant("cat", domain.RarityUncommon, domain.TraitNone),
		Requested:   2,
		Transferred: 2,
		Remaining:   2,
		Scheduled:   true,
	}
}

func TestService_Subscribe(t *testing.T) {
	mockBus := new(MockEventBus)
	for _, et := range JournaledTypes {
		mockBus.On("Subscribe", et, mock.Anything).Return()
	}

	NewService(new(MockRepository)).Subscribe(mockBus)

	mockBus.AssertExpectations(t)
	mockBus.AssertNotCalled(t, "Subscribe", event.ProductionTicked, mock.Anything)
}

func TestService_JournalsTransfers(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store)
	bus := event.NewMemoryBus()
	svc.Subscribe(bus)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, event.NewTransferEvent("transfer_in", true, transferResult())))
	require.NoError(t, bus.Publish(ctx, event.NewTransferEvent("transfer_out", false, transferResult())))
	require.NoError(t, bus.Publish(ctx, event.NewTickEvent(domain.TickResult{
		Key: domain.AssignmentKey{OwnerID: "owner-1", VariantKey: "cat:uncommon:none"},
	})))

	entries, err := svc.OwnerEvents(ctx, "owner-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, string(event.ProducerUnassigned), entries[0].EventType)
	assert.Equal(t, string(event.ProducerAssigned), entries[1].EventType)
	assert.Equal(t, "cat:uncommon:none", entries[1].Payload["variant_key"])
	assert.Equal(t, "transfer_in", entries[1].Metadata[event.MetaOperation])

	none, err := svc.OwnerEvents(ctx, "owner-2", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_StorageErrorIsReturned(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("LogEvent", mock.Anything, mock.Anything).Return(errors.New("db down"))
	bus := event.NewMemoryBus()
	NewService(mockRepo).Subscribe(bus)

	err := bus.Publish(context.Background(), event.NewTransferEvent("transfer_in", true, transferResult()))

	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_OwnerEventsClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, DefaultOwnerEventLimit},
		{"explicit", 10, 10},
		{"capped", 10_000, MaxOwnerEventLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			mockRepo.On("GetEvents", mock.Anything, repository.EventLogFilter{OwnerID: "o", Limit: tt.want}).
				Return([]repository.EventLogEntry{}, nil)

			_, err := NewService(mockRepo).OwnerEvents(context.Background(), "o", tt.limit)

			require.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCleanupJob_Process(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo).(*service)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	mockRepo.On("CleanupOldEvents", mock.Anything, now.Add(-48*time.Hour)).Return(int64(100), nil)

	err := NewCleanupJob(svc, 48*time.Hour).Process(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCleanupJob_DefaultRetention(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	old := time.Now().Add(-2 * DefaultRetention)
	require.NoError(t, store.LogEvent(ctx, repository.EventLogEntry{EventType: "producer.assigned", OwnerID: "o", CreatedAt: old}))
	require.NoError(t, store.LogEvent(ctx, repository.EventLogEntry{EventType: "producer.assigned", OwnerID: "o"}))

	require.NoError(t, NewCleanupJob(NewService(store), 0).Process(ctx))

	left, err := store.GetEvents(ctx, repository.EventLogFilter{OwnerID: "o"})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}
