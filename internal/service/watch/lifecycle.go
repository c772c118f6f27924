package watch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/streamsmart/server/internal/repository/room"
)

const roomClosedNotice = "The host has ended the watch party."

// lifecycle owns the grace-period state machine for every room: a host
// disconnect arms a cancellable timer, host reconnection disarms it, and an
// expired timer tears the room down.
//
// The timer map is the single source of truth. Both the fired timer and a
// cancel request do a locked check-and-clear of the room's registration, so
// exactly one of them acts.
type lifecycle struct {
	registry    iRoomRegistry
	group       *group
	gracePeriod time.Duration
	logger      *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newLifecycle(registry iRoomRegistry, group *group, gracePeriod time.Duration, logger *slog.Logger) *lifecycle {
	return &lifecycle{
		registry:    registry,
		group:       group,
		gracePeriod: gracePeriod,
		logger:      logger,
		timers:      make(map[string]*time.Timer),
	}
}

// beginGracePeriod arms the deletion timer for the room. Idempotent: a room
// already pending deletion keeps its original timer.
func (l *lifecycle) beginGracePeriod(roomCode string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.timers[roomCode]; ok {
		return
	}

	l.timers[roomCode] = time.AfterFunc(l.gracePeriod, func() {
		l.expire(roomCode)
	})
}

// cancelGracePeriod disarms the timer on host reconnect. Returns false if
// nothing was pending, including the case where the timer already fired and
// the room is gone.
func (l *lifecycle) cancelGracePeriod(roomCode string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.timers[roomCode]
	if !ok {
		return false
	}

	t.Stop()
	delete(l.timers, roomCode)

	return true
}

func (l *lifecycle) expire(roomCode string) {
	l.mu.Lock()
	_, ok := l.timers[roomCode]
	if ok {
		delete(l.timers, roomCode)
	}
	l.mu.Unlock()

	// cancelGracePeriod cleared the registration first
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.registry.DeleteRoom(ctx, roomCode); err != nil && !errors.Is(err, room.ErrRoomNotFound) {
		l.logger.WarnContext(ctx, "failed to delete room", "room_code", roomCode, "error", err)
	}

	// the notice goes out even if the delete failed so viewers are not
	// left waiting on a room that will never come back
	l.group.closeAll(roomCode, newRoomClosedOutput(roomClosedNotice))
}

func (l *lifecycle) isPending(roomCode string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.timers[roomCode]

	return ok
}
