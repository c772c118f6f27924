package watch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/streamsmart/server/internal/repository/room"
)

const defaultGracePeriod = 10 * time.Second

type iRoomRegistry interface {
	GetRoomByCode(context.Context, string) (room.Room, error)
	UpdateRoomPlayback(context.Context, *room.UpdatePlaybackParams) error
	DeleteRoom(context.Context, string) error
}

type Config struct {
	// GracePeriod is how long a room survives after its host disconnects
	// before it is torn down.
	GracePeriod time.Duration
}

type service struct {
	registry  iRoomRegistry
	group     *group
	lifecycle *lifecycle
	logger    *slog.Logger
}

func NewService(registry iRoomRegistry, logger *slog.Logger, cfg *Config) *service {
	gracePeriod := defaultGracePeriod
	if cfg != nil && cfg.GracePeriod > 0 {
		gracePeriod = cfg.GracePeriod
	}

	g := newGroup()

	return &service{
		registry:  registry,
		group:     g,
		lifecycle: newLifecycle(registry, g, gracePeriod, logger),
		logger:    logger,
	}
}

// ServeConn runs the message loop for one client connection scoped to
// roomCode until the connection fails or is closed. The room must exist at
// connect time or the connection is refused.
func (s *service) ServeConn(ctx context.Context, conn *websocket.Conn, roomCode string) error {
	rm, err := s.registry.GetRoomByCode(ctx, roomCode)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			conn.WriteJSON(newErrorOutput("Room not found"))
		} else {
			s.logger.WarnContext(ctx, "failed to get room on connect", "room_code", roomCode, "error", err)
			conn.WriteJSON(newErrorOutput("failed to get room"))
		}
		conn.Close()

		return err
	}

	sess := newSession(roomCode, conn)
	s.group.join(roomCode, sess)
	defer s.disconnect(ctx, sess)

	// seed the joiner with the last committed playback state
	sess.send(newSyncOutput(rm.CurrentTime, rm.IsPlaying))

	s.logger.DebugContext(ctx, "session connected", "room_code", roomCode)

	return s.newMux(sess).ServeConn(ctx, conn)
}

func (s *service) disconnect(ctx context.Context, sess *session) {
	if sess.isHost {
		// the host may be reloading the page; give it a chance to
		// come back before the room is torn down
		s.lifecycle.beginGracePeriod(sess.roomCode)
	} else if sess.sessionID != "" {
		s.group.broadcastExcept(sess.roomCode, sess, newUserLeftOutput(sess.username))
	}

	s.group.leave(sess.roomCode, sess)
	sess.close()

	s.logger.DebugContext(ctx, "session disconnected",
		"room_code", sess.roomCode,
		"session_id", sess.sessionID,
		"is_host", sess.isHost,
	)
}
