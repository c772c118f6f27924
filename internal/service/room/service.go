package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/streamsmart/server/internal/repository/room"
	"github.com/streamsmart/server/pkg/randstr"
)

var ErrRoomNotFound = errors.New("room not found")

const (
	roomCodeLength   = 8
	codeMintAttempts = 5
)

type iRoomRepo interface {
	SetRoom(context.Context, *room.SetRoomParams) error
	GetRoomByCode(context.Context, string) (room.Room, error)
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type service struct {
	roomRepo  iRoomRepo
	generator iGenerator
}

func NewService(roomRepo iRoomRepo) *service {
	return &service{
		roomRepo:  roomRepo,
		generator: randstr.New([]byte("0123456789abcdef")),
	}
}

type CreateRoomParams struct {
	VideoURL      string
	HostSessionID string
}

// CreateRoom mints a unique short code and persists the room. Whoever later
// joins presenting HostSessionID becomes the host.
func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (room.Room, error) {
	for i := 0; i < codeMintAttempts; i++ {
		code := s.generator.GenerateRandomString(roomCodeLength)
		err := s.roomRepo.SetRoom(ctx, &room.SetRoomParams{
			Code:          code,
			VideoURL:      params.VideoURL,
			HostSessionID: params.HostSessionID,
			CreatedAt:     time.Now().Unix(),
		})
		if err != nil {
			if errors.Is(err, room.ErrRoomAlreadyExists) {
				continue
			}

			return room.Room{}, fmt.Errorf("failed to create room: %w", err)
		}

		return s.roomRepo.GetRoomByCode(ctx, code)
	}

	return room.Room{}, errors.New("failed to mint unique room code")
}

func (s service) GetRoomByCode(ctx context.Context, code string) (room.Room, error) {
	rm, err := s.roomRepo.GetRoomByCode(ctx, code)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return room.Room{}, ErrRoomNotFound
		}

		return room.Room{}, fmt.Errorf("failed to get room: %w", err)
	}

	return rm, nil
}
