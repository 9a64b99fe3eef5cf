package virus

import "slices"

// PublicPlayer is what every player in the room may know about a seat:
// hand size but never hand contents.
type PublicPlayer struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	HandCount int    `json:"handCount"`
	Body      Body   `json:"body"`
	Immune    bool   `json:"immune"`
}

// Snapshot is the public game state broadcast to the whole room after every
// change. The discard top is a pointer so an empty pile serializes as null.
type Snapshot struct {
	Code       string         `json:"code"`
	Started    bool           `json:"started"`
	Turn       int            `json:"turn"`
	DeckCount  int            `json:"deckCount"`
	DiscardTop *Card          `json:"discardTop"`
	Players    []PublicPlayer `json:"players"`
}

// Snapshot detaches fully from the live game: organs are cloned, not
// aliased, so the caller can serialize it after releasing the room lock
// while other actions mutate the game.
func (g *Game) Snapshot(code string) Snapshot {
	players := make([]PublicPlayer, len(g.Players))
	for i, p := range g.Players {
		var body Body
		for j, organ := range p.Body {
			if organ != nil {
				clone := *organ
				body[j] = &clone
			}
		}
		players[i] = PublicPlayer{
			Name:      p.Name,
			Color:     p.Color,
			HandCount: len(p.Hand),
			Body:      body,
			Immune:    p.Immune,
		}
	}
	return Snapshot{
		Code:       code,
		Started:    g.Started,
		Turn:       g.Turn,
		DeckCount:  g.Deck.Count(),
		DiscardTop: g.DiscardTop(),
		Players:    players,
	}
}

// Hand returns a copy of the private hand for one seat, delivered to that
// player only. A copy for the same reason Snapshot clones: it outlives the
// room lock.
func (g *Game) Hand(seat int) []Card {
	if seat < 0 || seat >= len(g.Players) {
		return nil
	}
	return slices.Clone(g.Players[seat].Hand)
}
