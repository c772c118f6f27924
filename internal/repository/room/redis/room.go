package redis

import (
	"context"
	"fmt"

	"github.com/streamsmart/server/internal/repository/room"
)

func (r repo) getRoomKey(code string) string {
	return "room:" + code
}

func (r repo) SetRoom(ctx context.Context, params *room.SetRoomParams) error {
	roomKey := r.getRoomKey(params.Code)
	res, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if res > 0 {
		return room.ErrRoomAlreadyExists
	}

	rm := room.Room{
		Code:          params.Code,
		VideoURL:      params.VideoURL,
		HostSessionID: params.HostSessionID,
		CurrentTime:   0,
		IsPlaying:     false,
		CreatedAt:     params.CreatedAt,
	}
	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, roomKey, rm)
	pipe.Expire(ctx, roomKey, r.expireDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (r repo) GetRoomByCode(ctx context.Context, code string) (room.Room, error) {
	roomKey := r.getRoomKey(code)
	res, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return room.Room{}, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if res == 0 {
		return room.Room{}, room.ErrRoomNotFound
	}

	var rm room.Room
	if err := r.rc.HGetAll(ctx, roomKey).Scan(&rm); err != nil {
		return room.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	r.rc.Expire(ctx, roomKey, r.expireDuration)

	return rm, nil
}

func (r repo) UpdateRoomPlayback(ctx context.Context, params *room.UpdatePlaybackParams) error {
	roomKey := r.getRoomKey(params.Code)
	res, err := r.rc.Exists(ctx, roomKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if res == 0 {
		return room.ErrRoomNotFound
	}

	if err := r.rc.HSet(ctx, roomKey,
		"current_time", params.CurrentTime,
		"is_playing", params.IsPlaying,
	).Err(); err != nil {
		return fmt.Errorf("failed to update room playback: %w", err)
	}

	r.rc.Expire(ctx, roomKey, r.expireDuration)

	return nil
}

func (r repo) DeleteRoom(ctx context.Context, code string) error {
	res, err := r.rc.Del(ctx, r.getRoomKey(code)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if res == 0 {
		return room.ErrRoomNotFound
	}

	return nil
}
