package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupMembership(t *testing.T) {
	g := newGroup()
	s1 := &session{roomCode: "abc12345"}
	s2 := &session{roomCode: "abc12345"}

	g.join("abc12345", s1)
	g.join("abc12345", s2)
	assert.Equal(t, 2, g.memberCount("abc12345"))

	g.leave("abc12345", s1)
	assert.Equal(t, 1, g.memberCount("abc12345"))

	// leaving twice is harmless
	g.leave("abc12345", s1)
	assert.Equal(t, 1, g.memberCount("abc12345"))

	g.leave("abc12345", s2)
	assert.Equal(t, 0, g.memberCount("abc12345"))

	g.mu.RLock()
	_, exists := g.rooms["abc12345"]
	g.mu.RUnlock()
	assert.False(t, exists, "empty group entry must be removed")
}

func TestGroupsAreIsolatedPerRoom(t *testing.T) {
	g := newGroup()
	g.join("room0001", &session{roomCode: "room0001"})
	g.join("room0002", &session{roomCode: "room0002"})

	assert.Equal(t, 1, g.memberCount("room0001"))
	assert.Equal(t, 1, g.memberCount("room0002"))

	g.closeAll("room0001", nil)
	assert.Equal(t, 0, g.memberCount("room0001"))
	assert.Equal(t, 1, g.memberCount("room0002"))
}
