package watch

import "sync"

// group tracks the live sessions of every room and fans events out to them.
// Each room has its own lock so a slow room never blocks another; holding
// the member-set lock for the whole send loop keeps broadcasts of one room
// in issue order.
type group struct {
	mu    sync.RWMutex
	rooms map[string]*memberSet
}

type memberSet struct {
	mu       sync.Mutex
	sessions map[*session]struct{}
}

func newGroup() *group {
	return &group{rooms: make(map[string]*memberSet)}
}

func (g *group) join(roomCode string, sess *session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms, ok := g.rooms[roomCode]
	if !ok {
		ms = &memberSet{sessions: make(map[*session]struct{})}
		g.rooms[roomCode] = ms
	}

	ms.mu.Lock()
	ms.sessions[sess] = struct{}{}
	ms.mu.Unlock()
}

func (g *group) leave(roomCode string, sess *session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms, ok := g.rooms[roomCode]
	if !ok {
		return
	}

	ms.mu.Lock()
	delete(ms.sessions, sess)
	empty := len(ms.sessions) == 0
	ms.mu.Unlock()

	if empty {
		delete(g.rooms, roomCode)
	}
}

func (g *group) broadcast(roomCode string, v any) {
	g.broadcastExcept(roomCode, nil, v)
}

// broadcastExcept delivers v to every current member except skip. Delivery
// is best-effort per member: a session mid-disconnect just fails its write.
func (g *group) broadcastExcept(roomCode string, skip *session, v any) {
	g.mu.RLock()
	ms, ok := g.rooms[roomCode]
	g.mu.RUnlock()
	if !ok {
		return
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	for sess := range ms.sessions {
		if sess == skip {
			continue
		}
		sess.send(v)
	}
}

// closeAll sends v to every member, force-closes their connections and
// drops the room's entry.
func (g *group) closeAll(roomCode string, v any) {
	g.mu.Lock()
	ms, ok := g.rooms[roomCode]
	delete(g.rooms, roomCode)
	g.mu.Unlock()
	if !ok {
		return
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	for sess := range ms.sessions {
		sess.send(v)
		sess.close()
		delete(ms.sessions, sess)
	}
}

func (g *group) memberCount(roomCode string) int {
	g.mu.RLock()
	ms, ok := g.rooms[roomCode]
	g.mu.RUnlock()
	if !ok {
		return 0
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	return len(ms.sessions)
}
