package watch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/streamsmart/server/internal/repository/room"
	"github.com/streamsmart/server/pkg/wsrouter"
)

func (s *service) newMux(sess *session) *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Handle("ping", func(ctx context.Context, _ json.RawMessage) {
		s.handlePing(ctx, sess)
	})
	mux.Handle("join", func(ctx context.Context, raw json.RawMessage) {
		s.handleJoin(ctx, sess, raw)
	})
	mux.Handle("sync", func(ctx context.Context, raw json.RawMessage) {
		s.handleSync(ctx, sess, raw)
	})
	mux.Handle("chat", func(ctx context.Context, raw json.RawMessage) {
		s.handleChat(ctx, sess, raw)
	})

	return mux
}

func (s *service) handlePing(_ context.Context, sess *session) {
	sess.send(newPongOutput())
}

func (s *service) handleJoin(ctx context.Context, sess *session, raw json.RawMessage) {
	var input joinInput
	if err := json.Unmarshal(raw, &input); err != nil || input.SessionID == nil || *input.SessionID == "" {
		sess.send(newErrorOutput("session_id is required"))
		return
	}

	sess.sessionID = *input.SessionID
	if input.Username != nil {
		sess.username = *input.Username
	}

	// re-read the room: it may have been torn down since connect, and
	// joining is how a reconnecting host reclaims its role
	rm, err := s.registry.GetRoomByCode(ctx, sess.roomCode)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			sess.send(newErrorOutput("Room no longer exists"))
			sess.close()
			return
		}

		s.logger.WarnContext(ctx, "failed to get room on join", "room_code", sess.roomCode, "error", err)
		sess.send(newErrorOutput("failed to get room"))
		return
	}

	sess.isHost = sess.sessionID == rm.HostSessionID

	if sess.isHost && s.lifecycle.cancelGracePeriod(sess.roomCode) {
		s.logger.InfoContext(ctx, "host reconnected, room deletion cancelled", "room_code", sess.roomCode)
	}

	sess.send(newRoleOutput(sess.isHost, rm.VideoURL))

	s.group.broadcastExcept(sess.roomCode, sess, newUserJoinedOutput(sess.username))
}

func (s *service) handleSync(ctx context.Context, sess *session, raw json.RawMessage) {
	if !sess.isHost {
		sess.send(newErrorOutput("Only the host can control playback"))
		return
	}

	var input syncInput
	if err := json.Unmarshal(raw, &input); err != nil || input.CurrentTime == nil || input.IsPlaying == nil {
		sess.send(newErrorOutput("current_time and is_playing are required"))
		return
	}

	// persist first: broadcast order must follow registry commit order
	if err := s.registry.UpdateRoomPlayback(ctx, &room.UpdatePlaybackParams{
		Code:        sess.roomCode,
		CurrentTime: *input.CurrentTime,
		IsPlaying:   *input.IsPlaying,
	}); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			sess.send(newErrorOutput("Room no longer exists"))
			sess.close()
			return
		}

		s.logger.WarnContext(ctx, "failed to update room playback", "room_code", sess.roomCode, "error", err)
		sess.send(newErrorOutput("failed to update playback"))
		return
	}

	s.group.broadcast(sess.roomCode, newSyncOutput(*input.CurrentTime, *input.IsPlaying))
}

func (s *service) handleChat(_ context.Context, sess *session, raw json.RawMessage) {
	var input chatInput
	if err := json.Unmarshal(raw, &input); err != nil {
		return
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return
	}

	s.group.broadcast(sess.roomCode, newChatOutput(message, sess.username))
}
