package texasholdem

import (
	"encoding/json"
	"fmt"
)

// BettingRound is the phase of a hand
type BettingRound int

// constants for BettingRound, in the order a hand moves through them
const (
	RoundPreFlop BettingRound = iota
	RoundFlop
	RoundTurn
	RoundRiver
	RoundBettingComplete
	RoundSelectingWinners
	RoundApprovingWinners
	RoundDistributed
)

// IsBettingRound returns true if bets are accepted in the round
func (r BettingRound) IsBettingRound() bool {
	return r >= RoundPreFlop && r <= RoundRiver
}

// next returns the round that follows a betting round
// Rounds at or after betting-complete are not advanced by betting
func (r BettingRound) next() BettingRound {
	if r.IsBettingRound() {
		return r + 1
	}

	return r
}

func (r BettingRound) String() string {
	switch r {
	case RoundPreFlop:
		return "pre-flop"
	case RoundFlop:
		return "flop"
	case RoundTurn:
		return "turn"
	case RoundRiver:
		return "river"
	case RoundBettingComplete:
		return "betting-complete"
	case RoundSelectingWinners:
		return "selecting-winners"
	case RoundApprovingWinners:
		return "approving-winners"
	case RoundDistributed:
		return "distributed"
	}

	return ""
}

// MarshalJSON encodes JSON
func (r BettingRound) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(r),
		Name: r.String(),
	})
}

// UnmarshalJSON decodes the output of MarshalJSON
func (r *BettingRound) UnmarshalJSON(b []byte) error {
	var v struct {
		ID int `json:"id"`
	}

	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	round := BettingRound(v.ID)
	if round.String() == "" {
		return fmt.Errorf("unknown betting round: %d", v.ID)
	}

	*r = round
	return nil
}
