package virus

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

type Color string

const (
	Red    Color = "red"
	Green  Color = "green"
	Blue   Color = "blue"
	Yellow Color = "yellow"
	Wild   Color = "wild"
	None   Color = ""
)

// BodyColors are the four colors an organ slot can hold besides Wild.
var BodyColors = []Color{Red, Green, Blue, Yellow}

type Kind string

const (
	KindOrgan     Kind = "organ"
	KindVirus     Kind = "virus"
	KindMedicine  Kind = "medicine"
	KindTreatment Kind = "treatment"

	// KindDestroyedOrgan marks the husk of a destroyed organ on the discard
	// pile. It can be recycled into the deck and drawn; it matches no play
	// rule and can only be discarded again.
	KindDestroyedOrgan Kind = "organ-destroyed"
)

// Treatment card names. Treatments carry no color.
const (
	Transplant   = "Transplant"
	OrganThief   = "Organ Thief"
	Contagion    = "Contagion"
	LatexGlove   = "Latex Glove"
	MedicalError = "Medical Error"
)

var TreatmentNames = []string{Transplant, OrganThief, Contagion, LatexGlove, MedicalError}

var organNames = map[Color]string{
	Red:    "Heart",
	Green:  "Stomach",
	Blue:   "Brain",
	Yellow: "Bone",
	Wild:   "Wild organ",
}

type Card struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Color Color  `json:"color"`
	Name  string `json:"name"`
}

func (c Card) String() string {
	if c.Color == None {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Color)
}

type Deck struct {
	Cards []Card `json:"cards"`
}

func newCard(kind Kind, color Color, name string) Card {
	return Card{ID: uuid.NewString(), Kind: kind, Color: color, Name: name}
}

// BuildDeck assembles the fixed 69-card deck: 21 organs (5 per color + 1
// wild), 17 viruses (4 per color + 1 wild), 21 medicines (4 per color + 5
// wild) and 10 treatments (2 of each of the five).
func BuildDeck() *Deck {
	cards := make([]Card, 0, 69)

	for _, color := range BodyColors {
		for range 5 {
			cards = append(cards, newCard(KindOrgan, color, organNames[color]))
		}
	}
	cards = append(cards, newCard(KindOrgan, Wild, organNames[Wild]))

	for _, color := range BodyColors {
		for range 4 {
			cards = append(cards, newCard(KindVirus, color, fmt.Sprintf("%s virus", color)))
		}
	}
	cards = append(cards, newCard(KindVirus, Wild, "Wild virus"))

	for _, color := range BodyColors {
		for range 4 {
			cards = append(cards, newCard(KindMedicine, color, fmt.Sprintf("%s medicine", color)))
		}
	}
	for range 5 {
		cards = append(cards, newCard(KindMedicine, Wild, "Wild medicine"))
	}

	for _, name := range TreatmentNames {
		cards = append(cards, newCard(KindTreatment, None, name))
		cards = append(cards, newCard(KindTreatment, None, name))
	}

	return &Deck{Cards: cards}
}

func destroyedOrganMarker(color Color) Card {
	return newCard(KindDestroyedOrgan, color, "Destroyed organ")
}

func (d *Deck) Count() int {
	return len(d.Cards)
}

func (d *Deck) Shuffle() {
	rand.Shuffle(d.Count(), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// pop removes and returns the top card. Callers must check Count first.
func (d *Deck) pop() Card {
	card := d.Cards[len(d.Cards)-1]
	d.Cards = d.Cards[:len(d.Cards)-1]
	return card
}
