package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
)

func TestMemoryBus_PublishRunsEverySubscriber(t *testing.T) {
	bus := NewMemoryBus()
	var calls []string
	bus.Subscribe(ProducerAssigned, func(ctx context.Context, evt Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	bus.Subscribe(ProducerAssigned, func(ctx context.Context, evt Event) error {
		calls = append(calls, "second")
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: ProducerAssigned})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "encountered 1 errors")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	assert.NoError(t, NewMemoryBus().Publish(context.Background(), Event{Type: ProductionTicked}))
}

func TestNewTransferEvent(t *testing.T) {
	variant := domain.NewVariant("dragon", domain.RarityRare, domain.TraitGolden)
	res := domain.TransferResult{
		OwnerID:     "owner-1",
		Variant:     variant,
		Requested:   5,
		Transferred: 3,
		Remaining:   3,
		Scheduled:   true,
	}

	in := NewTransferEvent("transfer_in", true, res)
	assert.Equal(t, ProducerAssigned, in.Type)
	assert.Equal(t, "owner-1", in.OwnerID)
	assert.Equal(t, EventSchemaVersion, in.Version)
	payload := in.Payload.(TransferPayloadV1)
	assert.Equal(t, variant.Key(), payload.VariantKey)
	assert.True(t, payload.Partial)
	assert.False(t, payload.Unscheduled)
	assert.Equal(t, "transfer_in", in.Metadata[MetaOperation])

	out := NewTransferEvent("transfer_out", false, res)
	assert.Equal(t, ProducerUnassigned, out.Type)
	assert.False(t, out.Payload.(TransferPayloadV1).Partial)
}

func TestNewTickEvent(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	evt := NewTickEvent(domain.TickResult{
		Key:         domain.AssignmentKey{OwnerID: "o", VariantKey: "rat:common:none"},
		Quantity:    4,
		Coins:       12,
		Gems:        1,
		Multipliers: domain.Multipliers{Coin: 1, Gem: 1, Critical: true},
		At:          at,
	})

	assert.Equal(t, ProductionTicked, evt.Type)
	assert.Equal(t, at, evt.OccurredAt)
	payload := evt.Payload.(TickPayloadV1)
	assert.Equal(t, int64(12), payload.Coins)
	assert.True(t, payload.Critical)
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 0))
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 32*time.Second, CalculateRetryDelay(base, 5))
}

func TestDecodePayload(t *testing.T) {
	direct, err := DecodePayload[TickPayloadV1](TickPayloadV1{Coins: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), direct.Coins)

	fromMap, err := DecodePayload[TickPayloadV1](map[string]any{"coins": 7, "variant_key": "cat:uncommon:none"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), fromMap.Coins)
	assert.Equal(t, "cat:uncommon:none", fromMap.VariantKey)

	asMap, err := DecodePayload[map[string]any](RemovedPayloadV1{OwnerID: "o", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "o", asMap["owner_id"])
	assert.InDelta(t, 2, asMap["quantity"], 0)
}
