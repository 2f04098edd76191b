package texasholdem

// ParticipantError is an error caused by a participant and is safe to show to them
type ParticipantError string

func (p ParticipantError) Error() string {
	return string(p)
}

// validation errors
const (
	ErrInsufficientPlayers      = ParticipantError("at least two seated players are required to start a hand")
	ErrNotEnoughEligiblePlayers = ParticipantError("at least two players with chips are required to start a hand")
	ErrNotYourTurn              = ParticipantError("it is not your turn")
	ErrInsufficientChips        = ParticipantError("you do not have enough chips")
	ErrRaiseTooSmall            = ParticipantError("raise is too small")
	ErrInvalidActionAmount      = ParticipantError("amount must call, raise, or go all-in")
	ErrHandNotFound             = ParticipantError("hand not found")
	ErrWrongPhaseForAction      = ParticipantError("action is not allowed at this point in the hand")
	ErrSeatNotFound             = ParticipantError("seat is not part of the hand")
	ErrFoldedWinner             = ParticipantError("a player who folded cannot win the hand")
	ErrHandInProgress           = ParticipantError("the current hand is not complete")
)
