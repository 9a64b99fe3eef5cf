package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"virus-server/internal/virus"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.HelloWorldHandler)

	mux.HandleFunc("/health", s.healthHandler)

	mux.HandleFunc("/websocket", s.websocketHandler)

	// Wrap the mux with CORS middleware
	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// Handle preflight OPTIONS requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"message": "Virus game server"}
	jsonResp, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(jsonResp); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := json.Marshal(map[string]interface{}{
		"status": "up",
		"rooms":  s.roomManager.RoomCount(),
	})
	if err != nil {
		http.Error(w, "Failed to marshal health check response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: make environment-specific
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer socket.Close(websocket.StatusGoingAway, "Server closing")

	ctx := r.Context()

	connectionID := uuid.New().String()
	log.Printf("New connection: %s", connectionID)
	s.connectionManager.AddConnection(connectionID, socket)
	defer s.teardownConnection(connectionID)

	for {
		msgType, data, err := socket.Read(ctx)

		if err != nil {
			log.Printf("Connection %s read error: %v", connectionID, err)
			return
		}

		if msgType != websocket.MessageText {
			log.Printf("Non-text input from %s", connectionID)
			continue
		}

		s.connectionHealth.UpdateActivity(connectionID)

		if !s.rateLimiter.Allow(connectionID) {
			s.sendError(socket, ctx, "RATE_LIMITED: Too many messages, slow down")
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Invalid JSON from %s: %v", connectionID, err)
			s.sendError(socket, ctx, "Invalid JSON")
			continue
		}

		if err := ValidateMessageType(msg.Type); err != nil {
			log.Printf("Unknown message type '%s' from %s", msg.Type, connectionID)
			s.sendError(socket, ctx, err.Error())
			continue
		}

		log.Printf("Message Type '%s' from %s", msg.Type, connectionID)

		switch msg.Type {
		case "ping":
			s.handlePing(socket, ctx, connectionID)

		case "create_room":
			s.handleCreateRoom(socket, ctx, connectionID, msg.Payload)

		case "join_room":
			s.handleJoinRoom(socket, ctx, connectionID, msg.Payload)

		case "start_game":
			s.handleStartGame(socket, ctx, connectionID)

		case "play_card":
			s.handlePlayCard(socket, ctx, connectionID, msg.Payload)

		case "discard_cards":
			s.handleDiscardCards(socket, ctx, connectionID, msg.Payload)

		case "request_state":
			s.handleRequestState(socket, ctx, connectionID)

		case "leave_room":
			s.handleLeaveRoom(socket, ctx, connectionID)
		}
	}
}

// teardownConnection runs when a websocket closes for any reason. It frees
// the per-connection middleware state and vacates the player's seat; if the
// player held the current turn the game adjusts the turn pointer without
// running any turn-completed side effects.
func (s *Server) teardownConnection(connectionID string) {
	pc, seated := s.connectionManager.GetPlayer(connectionID)

	s.connectionManager.RemoveConnection(connectionID)
	s.rateLimiter.RemoveConnection(connectionID)
	s.connectionHealth.RemoveConnection(connectionID)
	log.Printf("Connection closed: %s", connectionID)

	if !seated {
		return
	}

	room, destroyed, err := s.roomManager.LeaveRoom(pc.RoomCode, connectionID)
	if err != nil {
		// Player may have left via leave_room before disconnecting.
		log.Printf("Disconnect cleanup for %s: %v", connectionID, err)
		return
	}

	if destroyed {
		log.Printf("Room %s destroyed (last player left)", pc.RoomCode)
		return
	}

	log.Printf("Player %s (%s) left room %s", pc.PlayerID, pc.Name, room.Code)
	s.broadcastLobby(room)
	s.broadcastGameState(room)
}

func (s *Server) handlePing(socket *websocket.Conn, ctx context.Context, connectionID string) {
	response := ServerMessage{
		Type:    "pong",
		Payload: struct{}{},
	}

	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send pong to %s: %v", connectionID, err)
	}
}

func (s *Server) sendMessage(socket *websocket.Conn, ctx context.Context, msg ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	return socket.Write(ctx, websocket.MessageText, data)
}

// sendError reports a rejected action to the offending connection only.
func (s *Server) sendError(socket *websocket.Conn, ctx context.Context, msg string) {
	response := ServerMessage{
		Type: "error",
		Payload: ErrorMessage{
			Message: msg,
		},
	}

	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send error message: %v", err)
	}
}

func (s *Server) handleCreateRoom(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req CreateRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "Invalid create_room payload")
		return
	}

	room, player, err := s.roomManager.CreateRoom(connectionID, req.Name, req.Color)
	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	s.connectionManager.SetPlayer(connectionID, PlayerConnection{
		RoomCode: room.Code,
		PlayerID: player.ID,
		Name:     player.Name,
	})

	response := ServerMessage{
		Type: "room_created",
		Payload: CreateRoomResponse{
			RoomCode: room.Code,
			PlayerID: player.ID,
		},
	}
	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send room_created: %v", err)
		return
	}

	s.broadcastLobby(room)
}

func (s *Server) handleJoinRoom(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req JoinRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "Invalid join_room payload")
		return
	}

	room, player, err := s.roomManager.JoinRoom(req.RoomCode, connectionID, req.Name, req.Color)
	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	s.connectionManager.SetPlayer(connectionID, PlayerConnection{
		RoomCode: room.Code,
		PlayerID: player.ID,
		Name:     player.Name,
	})

	response := ServerMessage{
		Type: "room_joined",
		Payload: JoinRoomResponse{
			Success:  true,
			RoomCode: room.Code,
			PlayerID: player.ID,
		},
	}
	if err := s.sendMessage(socket, ctx, response); err != nil {
		log.Printf("Failed to send room_joined: %v", err)
		return
	}

	s.broadcastLobby(room)
}

func (s *Server) handleStartGame(socket *websocket.Conn, ctx context.Context, connectionID string) {
	pc, ok := s.connectionManager.GetPlayer(connectionID)
	if !ok {
		s.sendError(socket, ctx, "NOT_IN_ROOM: No active room for this connection")
		return
	}

	room, err := s.roomManager.StartGame(pc.RoomCode, connectionID)
	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	s.broadcastToRoom(room, "game_started", GameStartedNotification{
		Message: "Game is starting!",
	})
	s.broadcastGameState(room)
}

func (s *Server) handlePlayCard(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req PlayCardRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "Invalid play_card payload")
		return
	}

	pc, ok := s.connectionManager.GetPlayer(connectionID)
	if !ok {
		s.sendError(socket, ctx, "NOT_IN_ROOM: No active room for this connection")
		return
	}

	room, err := s.roomManager.GetRoom(pc.RoomCode)
	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	room.Lock()
	seat := room.Game.PlayerIndex(connectionID)
	if seat < 0 {
		room.Unlock()
		s.sendError(socket, ctx, "NOT_IN_ROOM: No seat for this connection")
		return
	}

	winner, err := room.Game.PlayCard(seat, req.HandIndex, req.Target)
	if err != nil {
		room.Unlock()
		s.sendError(socket, ctx, err.Error())
		return
	}

	room.UpdatedAt = time.Now()
	var winnerName string
	playerCount := len(room.Game.Players)
	if winner >= 0 {
		winnerName = room.Game.Players[winner].Name
	}
	room.Unlock()

	if winner >= 0 {
		s.broadcastToRoom(room, "game_over", GameOverNotification{
			WinnerIndex: winner,
			WinnerName:  winnerName,
		})
		s.recordMatch(room.Code, winnerName, playerCount)
	}

	s.broadcastGameState(room)
}

func (s *Server) handleDiscardCards(socket *websocket.Conn, ctx context.Context, connectionID string, payload json.RawMessage) {
	var req DiscardCardsRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		s.sendError(socket, ctx, "Invalid discard_cards payload")
		return
	}

	pc, ok := s.connectionManager.GetPlayer(connectionID)
	if !ok {
		s.sendError(socket, ctx, "NOT_IN_ROOM: No active room for this connection")
		return
	}

	room, err := s.roomManager.GetRoom(pc.RoomCode)
	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	room.Lock()
	seat := room.Game.PlayerIndex(connectionID)
	if seat < 0 {
		room.Unlock()
		s.sendError(socket, ctx, "NOT_IN_ROOM: No seat for this connection")
		return
	}

	err = room.Game.DiscardCards(seat, req.Indices)
	if err == nil {
		room.UpdatedAt = time.Now()
	}
	room.Unlock()

	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	s.broadcastGameState(room)
}

func (s *Server) handleRequestState(socket *websocket.Conn, ctx context.Context, connectionID string) {
	pc, ok := s.connectionManager.GetPlayer(connectionID)
	if !ok {
		s.sendError(socket, ctx, "NOT_IN_ROOM: No active room for this connection")
		return
	}

	room, err := s.roomManager.GetRoom(pc.RoomCode)
	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	s.broadcastGameState(room)
}

func (s *Server) handleLeaveRoom(socket *websocket.Conn, ctx context.Context, connectionID string) {
	pc, ok := s.connectionManager.GetPlayer(connectionID)
	if !ok {
		s.sendError(socket, ctx, "NOT_IN_ROOM: No active room for this connection")
		return
	}

	room, destroyed, err := s.roomManager.LeaveRoom(pc.RoomCode, connectionID)
	if err != nil {
		s.sendError(socket, ctx, err.Error())
		return
	}

	s.connectionManager.ClearPlayer(connectionID)

	if destroyed {
		log.Printf("Room %s destroyed (last player left)", pc.RoomCode)
		return
	}

	s.broadcastLobby(room)
	s.broadcastGameState(room)
}

// broadcastToRoom sends one message to every seated, connected player.
func (s *Server) broadcastToRoom(room *Room, messageType string, payload interface{}) {
	room.Lock()
	connIDs := make([]string, 0, len(room.Game.Players))
	for _, p := range room.Game.Players {
		connIDs = append(connIDs, p.ConnID)
	}
	room.Unlock()

	msg := ServerMessage{
		Type:    messageType,
		Payload: payload,
	}
	for _, connID := range connIDs {
		conn := s.connectionManager.GetConnection(connID)
		if conn == nil {
			continue
		}
		// Use background context for broadcasts
		if err := s.sendMessage(conn, context.Background(), msg); err != nil {
			log.Printf("Failed to broadcast to %s: %v", connID, err)
		}
	}
}

// broadcastLobby sends the lobby roster to the whole room.
func (s *Server) broadcastLobby(room *Room) {
	room.Lock()
	state := buildLobbyState(room)
	room.Unlock()

	s.broadcastToRoom(room, "lobby", state)
}

func buildLobbyState(room *Room) LobbyState {
	players := make([]LobbyPlayer, len(room.Game.Players))
	for i, p := range room.Game.Players {
		players[i] = LobbyPlayer{
			ID:    p.ID,
			Name:  p.Name,
			Color: p.Color,
		}
	}
	return LobbyState{
		Code:    room.Code,
		HostID:  room.HostID,
		Players: players,
		Started: room.Game.Started,
	}
}

// broadcastGameState sends the public snapshot to the whole room, then each
// player's private hand to that player only. Other hands never leave the
// server.
func (s *Server) broadcastGameState(room *Room) {
	type privateHand struct {
		connID string
		hand   []virus.Card
	}

	room.Lock()
	snapshot := room.Game.Snapshot(room.Code)
	hands := make([]privateHand, 0, len(room.Game.Players))
	for i, p := range room.Game.Players {
		hands = append(hands, privateHand{connID: p.ConnID, hand: room.Game.Hand(i)})
	}
	room.Unlock()

	stateMsg := ServerMessage{
		Type:    "state",
		Payload: snapshot,
	}
	for _, h := range hands {
		conn := s.connectionManager.GetConnection(h.connID)
		if conn == nil {
			continue
		}
		if err := s.sendMessage(conn, context.Background(), stateMsg); err != nil {
			log.Printf("Failed to broadcast state to %s: %v", h.connID, err)
			continue
		}
		handMsg := ServerMessage{
			Type:    "your_hand",
			Payload: h.hand,
		}
		if err := s.sendMessage(conn, context.Background(), handMsg); err != nil {
			log.Printf("Failed to send hand to %s: %v", h.connID, err)
		}
	}
}
