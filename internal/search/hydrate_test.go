// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition(t *testing.T) {
	ids := []string{"1", "2", "3", "4", "5"}

	assert.Equal(t, [][]string{{"1", "2"}, {"3", "4"}, {"5"}}, partition(ids, 2))
	assert.Equal(t, [][]string{ids}, partition(ids, 8))
	assert.Len(t, partition(ids, 0), 5)
	assert.Empty(t, partition(nil, 3))
}

func TestHydrateKeepsOrderAndDropsFailures(t *testing.T) {
	fetch := func(ctx context.Context, id string) (string, error) {
		if id == "3" {
			return "", errors.New("HTTP 500")
		}
		// Later ids finish first.
		if id == "1" {
			time.Sleep(20 * time.Millisecond)
		}
		return "obj-" + id, nil
	}

	got, err := hydrate(context.Background(), []string{"1", "2", "3", "4"}, 8, fetch, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"obj-1", "obj-2", "obj-4"}, got)
}

func TestHydrateBoundsConcurrency(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	fetch := func(ctx context.Context, id string) (string, error) {
		mu.Lock()
		inFlight++
		peak = max(peak, inFlight)
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return id, nil
	}

	ids := make([]string, 20)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	got, err := hydrate(context.Background(), ids, 4, fetch, slog.Default())
	require.NoError(t, err)
	assert.Len(t, got, 20)
	assert.LessOrEqual(t, peak, 4)
}

func TestHydrateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	fetch := func(ctx context.Context, id string) (string, error) {
		if calls.Add(1) == 1 {
			cancel()
		}
		<-ctx.Done()
		return "", ctx.Err()
	}

	_, err := hydrate(ctx, []string{"1", "2", "3"}, 1, fetch, slog.Default())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), calls.Load(), "later groups must not start after cancellation")
}
