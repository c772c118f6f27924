package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/streamsmart/server/internal/repository/job"
	"github.com/streamsmart/server/internal/repository/room"
	roomservice "github.com/streamsmart/server/internal/service/room"
	"github.com/streamsmart/server/pkg/validator"
)

type iRoomService interface {
	CreateRoom(context.Context, *roomservice.CreateRoomParams) (room.Room, error)
	GetRoomByCode(context.Context, string) (room.Room, error)
}

type iJobService interface {
	CreateJob(ctx context.Context, url string) (job.Job, error)
	GetJobByID(ctx context.Context, id string) (job.Job, error)
}

type iWatchService interface {
	ServeConn(ctx context.Context, conn *websocket.Conn, roomCode string) error
}

type controller struct {
	roomService  iRoomService
	jobService   iJobService
	watchService iWatchService
	upgrader     websocket.Upgrader
	validate     *validator.Validator
	logger       *slog.Logger
}

func NewController(roomService iRoomService, jobService iJobService, watchService iWatchService, logger *slog.Logger) *controller {
	return &controller{
		roomService:  roomService,
		jobService:   jobService,
		watchService: watchService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
}
