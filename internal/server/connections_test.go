package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test: Add and look up a connection
// Why: Basic functionality - every websocket registers itself on accept
func TestConnectionManager_AddConnection(t *testing.T) {
	cm := NewConnectionManager()

	cm.AddConnection("conn-1", nil)

	// nil socket is fine for bookkeeping tests; the map entry is what matters
	_, ok := cm.GetPlayer("conn-1")
	assert.False(t, ok, "A bare connection has no seat yet")
}

// Test: Seat binding round-trip
// Why: Handlers resolve connection -> room/player on every message
func TestConnectionManager_SetPlayer(t *testing.T) {
	cm := NewConnectionManager()
	cm.AddConnection("conn-1", nil)

	cm.SetPlayer("conn-1", PlayerConnection{
		RoomCode: "ABCDE",
		PlayerID: "player-uuid",
		Name:     "Alice",
	})

	pc, ok := cm.GetPlayer("conn-1")
	assert.True(t, ok)
	assert.Equal(t, "ABCDE", pc.RoomCode)
	assert.Equal(t, "player-uuid", pc.PlayerID)
	assert.Equal(t, "Alice", pc.Name)
}

// Test: ClearPlayer keeps the socket
// Why: Leaving a room must not drop the websocket - the player can join another room
func TestConnectionManager_ClearPlayer(t *testing.T) {
	cm := NewConnectionManager()
	cm.AddConnection("conn-1", nil)
	cm.SetPlayer("conn-1", PlayerConnection{RoomCode: "ABCDE"})

	cm.ClearPlayer("conn-1")

	_, ok := cm.GetPlayer("conn-1")
	assert.False(t, ok, "Seat binding should be gone")
}

// Test: RemoveConnection drops both maps
// Why: Disconnect cleanup must not leak seat bindings
func TestConnectionManager_RemoveConnection(t *testing.T) {
	cm := NewConnectionManager()
	cm.AddConnection("conn-1", nil)
	cm.SetPlayer("conn-1", PlayerConnection{RoomCode: "ABCDE", Name: "Alice"})

	cm.RemoveConnection("conn-1")

	assert.Nil(t, cm.GetConnection("conn-1"))
	_, ok := cm.GetPlayer("conn-1")
	assert.False(t, ok)
}

// Test: Multiple connections stay independent
// Why: Normal multi-player scenario
func TestConnectionManager_MultiplePlayers(t *testing.T) {
	cm := NewConnectionManager()

	for _, id := range []string{"conn-1", "conn-2", "conn-3"} {
		cm.AddConnection(id, nil)
		cm.SetPlayer(id, PlayerConnection{RoomCode: "ABCDE", Name: id})
	}

	cm.RemoveConnection("conn-2")

	_, ok := cm.GetPlayer("conn-1")
	assert.True(t, ok)
	_, ok = cm.GetPlayer("conn-2")
	assert.False(t, ok)
	_, ok = cm.GetPlayer("conn-3")
	assert.True(t, ok)
}
