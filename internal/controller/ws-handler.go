package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (c controller) watchRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := chi.URLParam(r, "room-code")

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	if err := c.watchService.ServeConn(r.Context(), conn, roomCode); err != nil {
		c.logger.DebugContext(r.Context(), "session ended", "room_code", roomCode, "error", err)
	}
}
