package virus

import "errors"

// Move errors follow the ERROR_CODE: message convention used across the wire.
// Every rejected action leaves the game state untouched.
var (
	ErrNotYourTurn         = errors.New("NOT_YOUR_TURN: It's not your turn")
	ErrInvalidCard         = errors.New("INVALID_CARD: No such card in your hand")
	ErrIllegalMove         = errors.New("ILLEGAL_MOVE: That play is not allowed")
	ErrInvalidDiscardCount = errors.New("INVALID_DISCARD_COUNT: You can discard 1 to 3 cards")
	ErrGameNotStarted      = errors.New("GAME_NOT_STARTED: Game hasn't started yet")
)
