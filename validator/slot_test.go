package validator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrencySlotAcquireRelease(t *testing.T) {
	slot := NewConcurrencySlot(1)
	assert.True(t, slot.Drained())

	require.NoError(t, slot.Acquire(context.Background()))
	assert.False(t, slot.Drained())

	slot.Release()
	assert.True(t, slot.Drained())
}

func TestConcurrencySlotAcquireBlocksAtCapacity(t *testing.T) {
	slot := NewConcurrencySlot(1)
	require.NoError(t, slot.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := slot.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConcurrencySlotDefaultsCapacity(t *testing.T) {
	slot := NewConcurrencySlot(0)
	assert.Equal(t, int64(DefaultConcurrency), slot.capacity)
}
