package virus

const BodySlots = 4

// Organ is the state of one occupied body slot. Infected and Vaccines are
// mutually exclusive: a virus cancels a vaccine before infecting, a medicine
// cures an infection before vaccinating. Immune is set when Vaccines reaches 2.
type Organ struct {
	Color    Color `json:"color"`
	Infected int   `json:"infected"`
	Vaccines int   `json:"vaccines"`
	Immune   bool  `json:"immune"`
}

// Body is a player's four organ slots. A nil entry is an empty slot.
type Body [BodySlots]*Organ

// Healthy reports whether the organ counts toward the win condition.
func (o *Organ) Healthy() bool {
	return o.Infected == 0 || o.Vaccines > 0 || o.Immune
}

// colorMatches applies the wild-matching rule shared by viruses, medicines
// and Contagion: wild matches anything on either side.
func colorMatches(cardColor, organColor Color) bool {
	return cardColor == Wild || organColor == Wild || cardColor == organColor
}

// CanPlaceOrgan reports whether an organ of the given color may enter the
// body. Wild organs never collide; colored organs must be unique per body.
func CanPlaceOrgan(body *Body, color Color) bool {
	if color == Wild {
		return true
	}
	for _, organ := range body {
		if organ != nil && organ.Color == color {
			return false
		}
	}
	return true
}

// DistinctHealthyColorCount counts healthy organs toward the four needed to
// win. Each Wild organ counts as its own unique color, never merging with
// another slot.
func DistinctHealthyColorCount(body *Body) int {
	count := 0
	seen := map[Color]bool{}
	for _, organ := range body {
		if organ == nil || !organ.Healthy() {
			continue
		}
		if organ.Color == Wild {
			count++
			continue
		}
		if !seen[organ.Color] {
			seen[organ.Color] = true
			count++
		}
	}
	return count
}

func validSlot(slot int) bool {
	return slot >= 0 && slot < BodySlots
}
