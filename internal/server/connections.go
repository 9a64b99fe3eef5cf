package server

import (
	"sync"

	"github.com/coder/websocket"
)

// PlayerConnection is the seat a connection currently occupies.
type PlayerConnection struct {
	RoomCode string
	PlayerID string
	Name     string
}

// ConnectionManager tracks live sockets and which room each connection sits
// in. The connection id is the session key; a connection holds at most one
// seat at a time.
type ConnectionManager struct {
	connections map[string]*websocket.Conn // connectionID → socket
	players     map[string]PlayerConnection
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		players:     make(map[string]PlayerConnection),
	}
}

func (cm *ConnectionManager) AddConnection(id string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[id] = conn
}

func (cm *ConnectionManager) RemoveConnection(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.connections, id)
	delete(cm.players, id)
}

// SetPlayer records which room and player a connection belongs to.
func (cm *ConnectionManager) SetPlayer(connectionID string, pc PlayerConnection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.players[connectionID] = pc
}

// ClearPlayer removes the seat binding but keeps the socket, e.g. after a
// player leaves a room without disconnecting.
func (cm *ConnectionManager) ClearPlayer(connectionID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.players, connectionID)
}

func (cm *ConnectionManager) GetPlayer(connectionID string) (PlayerConnection, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	pc, ok := cm.players[connectionID]
	return pc, ok
}

func (cm *ConnectionManager) GetConnection(connectionID string) *websocket.Conn {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.connections[connectionID]
}
