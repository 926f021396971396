package event

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishIdle_Go/internal/testing/leaktest"
)

// flakyBus fails the first failures publishes, then succeeds
type flakyBus struct {
	*MemoryBus
	failures  int32
	published atomic.Int32
}

func (b *flakyBus) Publish(ctx context.Context, evt Event) error {
	if b.published.Add(1) <= b.failures {
		return errors.New("handler unavailable")
	}
	return b.MemoryBus.Publish(ctx, evt)
}

func readDeadLetters(t *testing.T, path string) []DeadLetterEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []DeadLetterEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry DeadLetterEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestResilientPublisher_RetriesUntilSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	inner := &flakyBus{MemoryBus: NewMemoryBus(), failures: 2}
	delivered := make(chan Event, 1)
	inner.Subscribe(ProducerAssigned, func(ctx context.Context, evt Event) error {
		delivered <- evt
		return nil
	})

	p, err := NewResilientPublisher(inner, 3, time.Millisecond, path)
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), Event{Type: ProducerAssigned, OwnerID: "o"}))

	select {
	case evt := <-delivered:
		assert.Equal(t, "o", evt.OwnerID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was never delivered")
	}
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_DeadLettersAfterRetries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	inner := &flakyBus{MemoryBus: NewMemoryBus(), failures: 100}

	p, err := NewResilientPublisher(inner, 2, time.Millisecond, path)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), Event{Type: AssignmentRemoved, OwnerID: "o"}))

	// one synchronous attempt plus two retries
	require.Eventually(t, func() bool { return inner.published.Load() >= 3 }, 2*time.Second, time.Millisecond)
	require.NoError(t, p.Shutdown(context.Background()))

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, AssignmentRemoved, entries[0].Event.Type)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Equal(t, "handler unavailable", entries[0].LastError)
	assert.Equal(t, DeadLetterSchemaVersion, entries[0].SchemaVersion)
}

func TestResilientPublisher_ShutdownDeadLettersPendingRetries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	inner := &flakyBus{MemoryBus: NewMemoryBus(), failures: 100}

	p, err := NewResilientPublisher(inner, 5, time.Hour, path)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), Event{Type: ProducerUnassigned}))
	require.NoError(t, p.Publish(context.Background(), Event{Type: ProducerUnassigned}))

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Len(t, readDeadLetters(t, path), 2)
}

func TestResilientPublisher_SuccessSkipsRetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	inner := &flakyBus{MemoryBus: NewMemoryBus()}

	p, err := NewResilientPublisher(inner, 5, time.Hour, path)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), Event{Type: ProductionTicked}))
	require.NoError(t, p.Shutdown(context.Background()))

	assert.Equal(t, int32(1), inner.published.Load())
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_ShutdownStopsRetryLoop(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		p, err := NewResilientPublisher(NewMemoryBus(), 1, time.Millisecond, filepath.Join(t.TempDir(), "dl.jsonl"))
		require.NoError(t, err)
		require.NoError(t, p.Shutdown(context.Background()))
		require.NoError(t, p.Shutdown(context.Background()), "second shutdown is a no-op")
	})
}
