package server

import (
	"errors"
	"sync"
	"time"

	"virus-server/internal/virus"
)

// RoomManager owns every live room, keyed by code. Room state is never
// shared between rooms, so actions in different rooms need no coordination;
// within a room the Room mutex keeps validate-and-mutate atomic.
type RoomManager struct {
	rooms     map[string]*Room
	usedCodes map[string]bool
	mu        sync.RWMutex
}

type Room struct {
	Code      string
	HostID    string // connection id of the current host
	Game      *virus.Game
	CreatedAt time.Time
	UpdatedAt time.Time

	mu sync.Mutex
}

// Lock serializes one inbound action against the room's game state. Every
// handler takes it before validating turn ownership and holds it until the
// mutation is complete.
func (r *Room) Lock()   { r.mu.Lock() }
func (r *Room) Unlock() { r.mu.Unlock() }

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:     make(map[string]*Room),
		usedCodes: make(map[string]bool),
	}
}

func (rm *RoomManager) CreateRoom(connID, name, color string) (*Room, *virus.Player, error) {
	if err := ValidatePlayerName(name); err != nil {
		return nil, nil, err
	}

	rm.mu.Lock()
	code := GenerateRoomCode(rm.usedCodes)
	rm.usedCodes[code] = true
	rm.mu.Unlock()

	now := time.Now()
	room := &Room{
		Code:      code,
		HostID:    connID,
		Game:      virus.NewGame(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	player := virus.NewPlayer(connID, name, color)
	room.Game.AddPlayer(player)

	rm.mu.Lock()
	rm.rooms[code] = room
	rm.mu.Unlock()

	return room, player, nil
}

func (rm *RoomManager) JoinRoom(code, connID, name, color string) (*Room, *virus.Player, error) {
	code = NormalizeRoomCode(code)
	if err := ValidateRoomCode(code); err != nil {
		return nil, nil, errors.New("ROOM_NOT_FOUND: Room does not exist")
	}
	if err := ValidatePlayerName(name); err != nil {
		return nil, nil, err
	}

	room, err := rm.GetRoom(code)
	if err != nil {
		return nil, nil, err
	}

	room.Lock()
	defer room.Unlock()

	if room.Game.Started {
		return nil, nil, errors.New("GAME_ALREADY_STARTED: Cannot join a game in progress")
	}
	if len(room.Game.Players) >= virus.MaxPlayers {
		return nil, nil, errors.New("ROOM_FULL: Room is full (max 5 players)")
	}

	player := virus.NewPlayer(connID, name, color)
	room.Game.AddPlayer(player)
	room.UpdatedAt = time.Now()

	return room, player, nil
}

// StartGame deals a fresh game. Only the host may start, and it takes at
// least two seated players. Restarting after a win re-deals from scratch.
func (rm *RoomManager) StartGame(code, connID string) (*Room, error) {
	room, err := rm.GetRoom(code)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()

	if room.HostID != connID {
		return nil, errors.New("NOT_HOST: Only the host can start the game")
	}
	if len(room.Game.Players) < virus.MinPlayers {
		return nil, errors.New("TOO_FEW_PLAYERS: Need at least 2 players to start")
	}

	room.Game.Start()
	room.UpdatedAt = time.Now()

	return room, nil
}

// LeaveRoom removes the connection's player. The last player out destroys
// the room and frees its code; a departing host hands the role to the first
// remaining player.
func (rm *RoomManager) LeaveRoom(code, connID string) (room *Room, destroyed bool, err error) {
	room, err = rm.GetRoom(code)
	if err != nil {
		return nil, false, err
	}

	room.Lock()
	defer room.Unlock()

	if !room.Game.RemovePlayer(connID) {
		return nil, false, errors.New("NOT_IN_ROOM: No seat for this connection")
	}

	if len(room.Game.Players) == 0 {
		rm.mu.Lock()
		delete(rm.rooms, room.Code)
		delete(rm.usedCodes, room.Code)
		rm.mu.Unlock()
		return room, true, nil
	}

	if room.HostID == connID {
		room.HostID = room.Game.Players[0].ConnID
	}
	room.UpdatedAt = time.Now()

	return room, false, nil
}

func (rm *RoomManager) GetRoom(code string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, exists := rm.rooms[NormalizeRoomCode(code)]
	if !exists {
		return nil, errors.New("ROOM_NOT_FOUND: Room does not exist")
	}

	return room, nil
}

func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	return len(rm.rooms)
}
