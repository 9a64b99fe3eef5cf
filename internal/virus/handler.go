package virus

// Target addresses a play. Which fields matter depends on the card being
// played; the resolver validates the relevant ones and ignores the rest, so
// a malformed payload fails closed as an illegal move.
//
//   - Organ, Virus, Medicine: Player, Slot
//   - Medical Error: Player
//   - Transplant: FromPlayer, FromSlot, ToPlayer, ToSlot
//   - Organ Thief: FromPlayer, FromSlot, ToSlot
//   - Contagion, Latex Glove: no target
type Target struct {
	Player int `json:"playerIndex"`
	Slot   int `json:"slotIndex"`

	FromPlayer int `json:"fromPlayer"`
	FromSlot   int `json:"fromSlot"`
	ToPlayer   int `json:"toPlayer"`
	ToSlot     int `json:"toSlot"`
}
