package potmanager

import (
	"errors"
	"fmt"
)

// ErrNoWinners is returned when a pot is paid out without any winners
var ErrNoWinners = errors.New("no winners have been declared")

// Split divides the pot into n shares using floor division
// The first share also carries the remainder, so the shares always sum to pot
func Split(pot, n int) ([]int, error) {
	if n <= 0 {
		return nil, ErrNoWinners
	}

	if pot < 0 {
		return nil, fmt.Errorf("pot cannot be negative: %d", pot)
	}

	shares := make([]int, n)
	each := pot / n
	for i := range shares {
		shares[i] = each
	}

	shares[0] += pot % n
	return shares, nil
}

// PayWinners credits each winner with their share of the pot and returns the payouts keyed by ID
// Winners must be provided in a stable order, the first winner receives any remainder
func PayWinners(pot int, winners []Participant) (map[int64]int, error) {
	shares, err := Split(pot, len(winners))
	if err != nil {
		return nil, err
	}

	payouts := make(map[int64]int, len(winners))
	for i, winner := range winners {
		winner.AdjustBalance(shares[i])
		payouts[winner.ID()] += shares[i]
	}

	return payouts, nil
}
