package server

import "virus-server/internal/virus"

// ============================================================================
// ERROR RESPONSES
// ============================================================================
type ErrorMessage struct {
	Message string `json:"message"`
}

// ============================================================================
// CREATE ROOM (create_room)
// ============================================================================
type CreateRoomRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CreateRoomResponse struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// ============================================================================
// JOIN ROOM (join_room)
// ============================================================================
type JoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
	Color    string `json:"color"`
}

type JoinRoomResponse struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// ============================================================================
// PLAY CARD (play_card)
// ============================================================================
type PlayCardRequest struct {
	HandIndex int          `json:"handIndex"`
	Target    virus.Target `json:"target"`
}

// ============================================================================
// DISCARD (discard_cards)
// ============================================================================
type DiscardCardsRequest struct {
	Indices []int `json:"indices"`
}

// ============================================================================
// LOBBY STATE (lobby broadcast)
// ============================================================================
type LobbyState struct {
	Code    string        `json:"code"`
	HostID  string        `json:"hostId"`
	Players []LobbyPlayer `json:"players"`
	Started bool          `json:"started"`
}

type LobbyPlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ============================================================================
// GAME EVENTS
// ============================================================================
type GameStartedNotification struct {
	Message string `json:"message"`
}

type GameOverNotification struct {
	WinnerIndex int    `json:"winnerIndex"`
	WinnerName  string `json:"winnerName"`
}
