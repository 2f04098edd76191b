package texasholdem

import (
	"time"

	"chipstack-server/pkg/playable/poker/seating"
)

// Hand is a single hand played at the table
type Hand struct {
	Number         int          `json:"number"`
	DealerSeat     int          `json:"dealerSeat"`
	SmallBlindSeat int          `json:"smallBlindSeat"`
	BigBlindSeat   int          `json:"bigBlindSeat"`
	Round          BettingRound `json:"round"`
	Pot            int          `json:"pot"`
	// CurrentBet is the highest bet in the current betting round
	CurrentBet int `json:"currentBet"`
	// TurnSeat is the seat that must act, nil when no betting round is active
	TurnSeat *int `json:"turnSeat"`
	// FenceToken is stamped whenever winner selection changes; deferred checks
	// carry the token they were scheduled with and do nothing if it has moved on
	FenceToken int64     `json:"fenceToken"`
	Entries    Ledger    `json:"entries"`
	Started    time.Time `json:"started"`
}

// IsComplete returns true once the pot has been paid out
func (h *Hand) IsComplete() bool {
	return h.Round == RoundDistributed
}

// IsTurn returns true if the seat is the one that must act
func (h *Hand) IsTurn(position int) bool {
	return h.TurnSeat != nil && *h.TurnSeat == position
}

func (h *Hand) setTurn(position int) {
	h.TurnSeat = &position
}

func (h *Hand) seats() *seating.Directory {
	return seating.New([]*Entry(h.Entries))
}

// canActAt is a seating predicate for seats that still need to make decisions
func (h *Hand) canActAt(seat seating.Seat) bool {
	e := h.Entries.bySeat(seat.Position)
	return e != nil && e.canAct()
}

// isRoundComplete returns true when everyone who hasn't folded is either all-in, or
// has acted and matched the current bet
func (h *Hand) isRoundComplete() bool {
	for _, e := range h.Entries {
		switch e.Status {
		case EntryStatusFolded, EntryStatusAllIn:
			continue
		}

		if !e.Acted || e.CurrentBet != h.CurrentBet {
			return false
		}
	}

	return true
}

func (h *Hand) completeBetting() {
	h.Round = RoundBettingComplete
	h.TurnSeat = nil
}

func (h *Hand) clone() *Hand {
	c := *h
	c.Entries = h.Entries.clone()
	if h.TurnSeat != nil {
		c.setTurn(*h.TurnSeat)
	}

	return &c
}
