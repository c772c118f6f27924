package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type string `json:"type"`
}

type HandlerFunc func(ctx context.Context, raw json.RawMessage)

// WSRouter dispatches inbound websocket messages by their "type" field.
// Messages of an unregistered type are discarded without a reply.
type WSRouter struct {
	routes map[string]HandlerFunc
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// ServeConn reads messages from the connection until it fails and routes
// each one. Returns the read error that ended the loop.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg envelope
		if err := json.Unmarshal(data, &msg); err != nil {
			// not an object with a type field, nothing to route
			continue
		}

		if handler, exists := r.routes[msg.Type]; exists {
			handler(ctx, data)
		}
	}
}
