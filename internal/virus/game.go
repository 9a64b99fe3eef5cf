package virus

import (
	"github.com/google/uuid"
)

const (
	MinPlayers   = 2
	MaxPlayers   = 5
	HandSize     = 3
	WinningCount = 4
)

type Player struct {
	// ID is a stable player identity, distinct from the transport
	// connection id so a future session layer can rebind connections
	// without touching game state.
	ID     string `json:"id"`
	ConnID string `json:"-"`
	Name   string `json:"name"`
	Color  string `json:"color"`
	Hand   []Card `json:"hand"`
	Body   Body   `json:"body"`
	Immune bool   `json:"immune"`
}

func NewPlayer(connID, name, color string) *Player {
	return &Player{
		ID:     uuid.NewString(),
		ConnID: connID,
		Name:   name,
		Color:  color,
		Hand:   make([]Card, 0, HandSize),
	}
}

// Game is one room's game state. It is not safe for concurrent use; the
// owning room serializes every action against it.
type Game struct {
	Players []*Player `json:"players"`
	Deck    *Deck     `json:"deck"`
	Discard []Card    `json:"discard"`
	Turn    int       `json:"turn"`
	Started bool      `json:"started"`
}

func NewGame() *Game {
	return &Game{
		Players: make([]*Player, 0, MaxPlayers),
		Deck:    &Deck{},
		Discard: make([]Card, 0),
	}
}

func (g *Game) AddPlayer(p *Player) {
	g.Players = append(g.Players, p)
}

// PlayerIndex returns the seat of the given connection, -1 if unseated.
func (g *Game) PlayerIndex(connID string) int {
	for i, p := range g.Players {
		if p.ConnID == connID {
			return i
		}
	}
	return -1
}

// RemovePlayer drops the seat for a connection and keeps the turn pointer in
// range: it wraps to 0 when it falls past the new player count, and runs no
// turn-completion side effects. Returns false if the connection held no seat.
func (g *Game) RemovePlayer(connID string) bool {
	idx := g.PlayerIndex(connID)
	if idx < 0 {
		return false
	}
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
	if g.Turn >= len(g.Players) {
		g.Turn = 0
	}
	return true
}

// Start deals a fresh game: new shuffled deck, cleared discard, every
// player's hand, body and immune flag reset, three cards each in seat
// order, first seat to move. Starting again after a win re-deals from
// scratch with the same seating.
func (g *Game) Start() {
	g.Deck = BuildDeck()
	g.Deck.Shuffle()
	g.Discard = g.Discard[:0]
	g.Turn = 0
	g.Started = true
	for i, p := range g.Players {
		p.Hand = p.Hand[:0]
		p.Body = Body{}
		p.Immune = false
		g.DrawToThree(i)
	}
}

// draw moves one card from the deck to a player's hand. When the deck runs
// out, everything below the top discard is reshuffled into the deck first.
// Returns false when both piles are exhausted.
func (g *Game) draw(seat int) bool {
	if g.Deck.Count() == 0 {
		if len(g.Discard) <= 1 {
			return false
		}
		top := g.Discard[len(g.Discard)-1]
		g.Deck.Cards = append(g.Deck.Cards, g.Discard[:len(g.Discard)-1]...)
		g.Discard = []Card{top}
		g.Deck.Shuffle()
	}
	g.Players[seat].Hand = append(g.Players[seat].Hand, g.Deck.pop())
	return true
}

// DrawToThree refills a hand up to three cards. A short hand is not an
// error: when deck and discard are both dry the hand simply stays short.
func (g *Game) DrawToThree(seat int) {
	for len(g.Players[seat].Hand) < HandSize {
		if !g.draw(seat) {
			break
		}
	}
}

// CheckWinner returns the first seat holding four distinct healthy organ
// colors, or -1. Seats are checked in order so the result is deterministic.
// On a win the started flag clears; hands and boards are left as they stand
// until the host starts a new game.
func (g *Game) CheckWinner() int {
	for i, p := range g.Players {
		if DistinctHealthyColorCount(&p.Body) >= WinningCount {
			g.Started = false
			return i
		}
	}
	return -1
}

func (g *Game) advanceTurn() {
	g.Turn = (g.Turn + 1) % len(g.Players)
}

func (g *Game) discardCard(c Card) {
	g.Discard = append(g.Discard, c)
}

// DiscardTop returns the visible top of the discard pile, nil when empty.
func (g *Game) DiscardTop() *Card {
	if len(g.Discard) == 0 {
		return nil
	}
	top := g.Discard[len(g.Discard)-1]
	return &top
}
