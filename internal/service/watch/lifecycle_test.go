package watch

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamsmart/server/internal/repository/room"
)

type fakeRegistry struct {
	mu      sync.Mutex
	deleted map[string]int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{deleted: make(map[string]int)}
}

func (f *fakeRegistry) GetRoomByCode(_ context.Context, code string) (room.Room, error) {
	return room.Room{}, room.ErrRoomNotFound
}

func (f *fakeRegistry) UpdateRoomPlayback(_ context.Context, _ *room.UpdatePlaybackParams) error {
	return nil
}

func (f *fakeRegistry) DeleteRoom(_ context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[code]++
	return nil
}

func (f *fakeRegistry) deleteCount(code string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted[code]
}

func newTestLifecycle(gracePeriod time.Duration) (*lifecycle, *fakeRegistry) {
	registry := newFakeRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return newLifecycle(registry, newGroup(), gracePeriod, logger), registry
}

func TestBeginGracePeriodIsIdempotent(t *testing.T) {
	l, registry := newTestLifecycle(50 * time.Millisecond)

	l.beginGracePeriod("abc12345")
	l.beginGracePeriod("abc12345")
	assert.True(t, l.isPending("abc12345"))

	require.Eventually(t, func() bool {
		return !l.isPending("abc12345")
	}, time.Second, 5*time.Millisecond)

	// overlapping begins must never double-delete
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, registry.deleteCount("abc12345"))
}

func TestCancelGracePeriodDisarmsTimer(t *testing.T) {
	l, registry := newTestLifecycle(50 * time.Millisecond)

	l.beginGracePeriod("abc12345")
	assert.True(t, l.cancelGracePeriod("abc12345"))
	assert.False(t, l.isPending("abc12345"))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, registry.deleteCount("abc12345"))
}

func TestCancelAfterExpiryIsNoop(t *testing.T) {
	l, registry := newTestLifecycle(10 * time.Millisecond)

	l.beginGracePeriod("abc12345")

	require.Eventually(t, func() bool {
		return registry.deleteCount("abc12345") == 1
	}, time.Second, 5*time.Millisecond)

	assert.False(t, l.cancelGracePeriod("abc12345"))
}

func TestCancelWithoutPendingReturnsFalse(t *testing.T) {
	l, _ := newTestLifecycle(time.Minute)

	assert.False(t, l.cancelGracePeriod("abc12345"))
}

func TestIndependentRoomsHaveIndependentTimers(t *testing.T) {
	l, registry := newTestLifecycle(30 * time.Millisecond)

	l.beginGracePeriod("room0001")
	l.beginGracePeriod("room0002")
	require.True(t, l.cancelGracePeriod("room0001"))

	require.Eventually(t, func() bool {
		return registry.deleteCount("room0002") == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, registry.deleteCount("room0001"))
}
