package virus

import (
	"slices"
)

// organAt returns the organ in a player's slot, or nil when the seat or
// slot is out of range or the slot is empty.
func (g *Game) organAt(seat, slot int) *Organ {
	if seat < 0 || seat >= len(g.Players) || !validSlot(slot) {
		return nil
	}
	return g.Players[seat].Body[slot]
}

// PlayCard validates and resolves one card play for the seat whose turn it
// is. On success the card moves to the discard pile, the hand refills to
// three, the winner check runs and the turn advances (unless the play won,
// in which case the game stops instead). The returned winner is -1 when the
// game goes on. On any error no state has changed.
func (g *Game) PlayCard(seat, handIndex int, target Target) (winner int, err error) {
	if !g.Started {
		return -1, ErrGameNotStarted
	}
	if seat != g.Turn {
		return -1, ErrNotYourTurn
	}
	player := g.Players[seat]
	if handIndex < 0 || handIndex >= len(player.Hand) {
		return -1, ErrInvalidCard
	}
	card := player.Hand[handIndex]

	switch card.Kind {
	case KindOrgan:
		err = g.playOrgan(seat, card, target)
	case KindVirus:
		err = g.playVirus(card, target)
	case KindMedicine:
		err = g.playMedicine(card, target)
	case KindTreatment:
		err = g.playTreatment(seat, card, target)
	default:
		// Destroyed-organ markers recycled from the discard pile.
		err = ErrIllegalMove
	}
	if err != nil {
		return -1, err
	}

	player.Hand = append(player.Hand[:handIndex], player.Hand[handIndex+1:]...)
	g.discardCard(card)

	g.DrawToThree(seat)
	if winner := g.CheckWinner(); winner >= 0 {
		return winner, nil
	}
	g.advanceTurn()
	return -1, nil
}

// playOrgan places an organ into one of the acting player's own empty
// slots. Colored organs must be unique within the body; wild never collides.
func (g *Game) playOrgan(seat int, card Card, target Target) error {
	if target.Player != seat || !validSlot(target.Slot) {
		return ErrIllegalMove
	}
	player := g.Players[seat]
	if player.Body[target.Slot] != nil {
		return ErrIllegalMove
	}
	if !CanPlaceOrgan(&player.Body, card.Color) {
		return ErrIllegalMove
	}
	player.Body[target.Slot] = &Organ{Color: card.Color}
	return nil
}

// playVirus attacks any player's occupied, non-immune organ of a matching
// color. An existing vaccine absorbs the virus; otherwise the infection
// grows, and a second infection destroys the organ outright.
func (g *Game) playVirus(card Card, target Target) error {
	organ := g.organAt(target.Player, target.Slot)
	if organ == nil || organ.Immune {
		return ErrIllegalMove
	}
	if !colorMatches(card.Color, organ.Color) {
		return ErrIllegalMove
	}
	if organ.Vaccines > 0 {
		organ.Vaccines--
		return nil
	}
	organ.Infected++
	if organ.Infected >= 2 {
		g.discardCard(destroyedOrganMarker(organ.Color))
		g.Players[target.Player].Body[target.Slot] = nil
	}
	return nil
}

// playMedicine treats any player's occupied organ of a matching color. It
// cures an infection first; otherwise it vaccinates, and a second vaccine
// makes the organ immune. Re-medicating an immune organ is a no-op success.
func (g *Game) playMedicine(card Card, target Target) error {
	organ := g.organAt(target.Player, target.Slot)
	if organ == nil {
		return ErrIllegalMove
	}
	if !colorMatches(card.Color, organ.Color) {
		return ErrIllegalMove
	}
	if organ.Immune {
		return nil
	}
	if organ.Infected > 0 {
		organ.Infected--
		return nil
	}
	organ.Vaccines++
	if organ.Vaccines >= 2 {
		organ.Immune = true
	}
	return nil
}

func (g *Game) playTreatment(seat int, card Card, target Target) error {
	switch card.Name {
	case Transplant:
		return g.playTransplant(target)
	case OrganThief:
		return g.playOrganThief(seat, target)
	case Contagion:
		return g.playContagion(seat)
	case LatexGlove:
		return g.playLatexGlove(seat)
	case MedicalError:
		return g.playMedicalError(seat, target)
	}
	return ErrIllegalMove
}

// playTransplant swaps two occupied slots between any two boards, carrying
// infection and vaccine state along. Immune organs stay put.
func (g *Game) playTransplant(target Target) error {
	from := g.organAt(target.FromPlayer, target.FromSlot)
	to := g.organAt(target.ToPlayer, target.ToSlot)
	if from == nil || to == nil {
		return ErrIllegalMove
	}
	if from.Immune || to.Immune {
		return ErrIllegalMove
	}
	g.Players[target.FromPlayer].Body[target.FromSlot] = to
	g.Players[target.ToPlayer].Body[target.ToSlot] = from
	return nil
}

// playOrganThief moves another player's organ, state and all, into one of
// the thief's empty slots. Immune organs cannot be stolen, and stealing may
// not give the thief a duplicate color.
func (g *Game) playOrganThief(seat int, target Target) error {
	if target.FromPlayer == seat {
		return ErrIllegalMove
	}
	organ := g.organAt(target.FromPlayer, target.FromSlot)
	if organ == nil || organ.Immune {
		return ErrIllegalMove
	}
	me := g.Players[seat]
	if !CanPlaceOrgan(&me.Body, organ.Color) {
		return ErrIllegalMove
	}
	if !validSlot(target.ToSlot) || me.Body[target.ToSlot] != nil {
		return ErrIllegalMove
	}
	me.Body[target.ToSlot] = organ
	g.Players[target.FromPlayer].Body[target.FromSlot] = nil
	return nil
}

// playContagion spreads the acting player's infections. For each of their
// infected organs, opponents are scanned in seat order and then slot order
// for the first occupied slot that is not immune, infected or vaccinated
// and matches by color; one infection unit moves there and the scan stops
// for that source organ. The play is legal only if something moved.
func (g *Game) playContagion(seat int) error {
	me := g.Players[seat]
	moved := 0
	for _, source := range me.Body {
		if source == nil || source.Infected == 0 {
			continue
		}
	search:
		for pi, other := range g.Players {
			if pi == seat {
				continue
			}
			for _, organ := range other.Body {
				if organ == nil || organ.Immune || organ.Infected > 0 || organ.Vaccines > 0 {
					continue
				}
				if colorMatches(source.Color, organ.Color) {
					source.Infected--
					organ.Infected++
					moved++
					break search
				}
			}
		}
	}
	if moved == 0 {
		return ErrIllegalMove
	}
	return nil
}

// playLatexGlove discards every other player's hand; each victim draws back
// up to three. With no opponents it trivially succeeds.
func (g *Game) playLatexGlove(seat int) error {
	for i, p := range g.Players {
		if i == seat {
			continue
		}
		g.Discard = append(g.Discard, p.Hand...)
		p.Hand = p.Hand[:0]
		g.DrawToThree(i)
	}
	return nil
}

// playMedicalError swaps the acting player's whole body with another
// player's, all four slots with full state. Immunity does not protect here.
func (g *Game) playMedicalError(seat int, target Target) error {
	if target.Player == seat || target.Player < 0 || target.Player >= len(g.Players) {
		return ErrIllegalMove
	}
	me := g.Players[seat]
	other := g.Players[target.Player]
	me.Body, other.Body = other.Body, me.Body
	return nil
}

// DiscardCards discards 1-3 of the acting player's cards by hand index,
// draws the same number of replacements and ends the turn. Duplicate
// indices collapse; every index must point at a card.
func (g *Game) DiscardCards(seat int, indices []int) error {
	if !g.Started {
		return ErrGameNotStarted
	}
	if seat != g.Turn {
		return ErrNotYourTurn
	}
	if len(indices) < 1 || len(indices) > 3 {
		return ErrInvalidDiscardCount
	}
	player := g.Players[seat]

	unique := slices.Clone(indices)
	slices.Sort(unique)
	unique = slices.Compact(unique)
	for _, i := range unique {
		if i < 0 || i >= len(player.Hand) {
			return ErrInvalidCard
		}
	}

	// Remove from the highest index down so the lower ones stay valid.
	slices.Reverse(unique)
	for _, i := range unique {
		g.discardCard(player.Hand[i])
		player.Hand = append(player.Hand[:i], player.Hand[i+1:]...)
	}
	for range unique {
		if !g.draw(seat) {
			break
		}
	}
	g.advanceTurn()
	return nil
}
