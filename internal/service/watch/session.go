package watch

import (
	"sync"

	"github.com/gorilla/websocket"
)

// session is the transient identity of one live connection within a room.
// Identity fields are only mutated by the connection's own read loop; the
// mutex serializes frame writes between that loop and room broadcasts.
type session struct {
	roomCode string
	conn     *websocket.Conn

	sessionID string
	username  string
	isHost    bool

	mu sync.Mutex
}

func newSession(roomCode string, conn *websocket.Conn) *session {
	return &session{
		roomCode: roomCode,
		conn:     conn,
		username: "Anonymous",
	}
}

func (s *session) send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	return s.conn.WriteJSON(v)
}

func (s *session) close() error {
	if s.conn == nil {
		return nil
	}

	return s.conn.Close()
}
