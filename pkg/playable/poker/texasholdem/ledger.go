package texasholdem

// EntryStatus is the status of a player within a single hand
type EntryStatus string

// EntryStatus constants
const (
	EntryStatusWaiting EntryStatus = "waiting"
	EntryStatusActive  EntryStatus = "active"
	EntryStatusFolded  EntryStatus = "folded"
	EntryStatusAllIn   EntryStatus = "all-in"
)

// Entry is one player's betting state for a hand
type Entry struct {
	PlayerID     int64 `json:"playerId"`
	SeatPosition int   `json:"seatPosition"`
	// CurrentBet is what the player has put in during the current betting round
	CurrentBet int `json:"currentBet"`
	// TotalBet is what the player has put in during the whole hand
	TotalBet        int         `json:"totalBet"`
	Acted           bool        `json:"acted"`
	Status          EntryStatus `json:"status"`
	IsWinner        bool        `json:"isWinner"`
	ApprovedWinners bool        `json:"approvedWinners"`
	Winnings        int         `json:"winnings"`
}

func newEntry(p *Player) *Entry {
	return &Entry{
		PlayerID:     p.PlayerID,
		SeatPosition: p.SeatPosition,
		Status:       EntryStatusWaiting,
	}
}

// canAct returns true if the entry can still check, call, raise, or fold
func (e *Entry) canAct() bool {
	return e.Status != EntryStatusFolded && e.Status != EntryStatusAllIn
}

// seating.Occupant interface

// GetPlayerID returns the player ID
func (e *Entry) GetPlayerID() int64 {
	return e.PlayerID
}

// GetSeatPosition returns the seat position
func (e *Entry) GetSeatPosition() int {
	return e.SeatPosition
}

// IsOut is always false, everyone with an entry was dealt in
func (e *Entry) IsOut() bool {
	return false
}

// Ledger holds one entry per player dealt into a hand, ordered by seat position
type Ledger []*Entry

func (l Ledger) bySeat(position int) *Entry {
	for _, e := range l {
		if e.SeatPosition == position {
			return e
		}
	}

	return nil
}

func (l Ledger) nonFoldedCount() int {
	count := 0
	for _, e := range l {
		if e.Status != EntryStatusFolded {
			count++
		}
	}

	return count
}

// totalBet is the sum of every chip committed to the hand
func (l Ledger) totalBet() int {
	total := 0
	for _, e := range l {
		total += e.TotalBet
	}

	return total
}

// requireActionExcept makes everyone who can still act, other than the raiser, act again
func (l Ledger) requireActionExcept(raiser *Entry) {
	for _, e := range l {
		if e != raiser && e.canAct() {
			e.Acted = false
		}
	}
}

// newRound resets the per-round state for everyone who can still act
func (l Ledger) newRound() {
	for _, e := range l {
		if e.canAct() {
			e.CurrentBet = 0
			e.Acted = false
		}
	}
}

func (l Ledger) winners() []*Entry {
	winners := make([]*Entry, 0)
	for _, e := range l {
		if e.IsWinner {
			winners = append(winners, e)
		}
	}

	return winners
}

func (l Ledger) approvedCount() int {
	count := 0
	for _, e := range l {
		if e.ApprovedWinners {
			count++
		}
	}

	return count
}

// hasMajorityApproval requires strictly more than half of the entries
func (l Ledger) hasMajorityApproval() bool {
	return l.approvedCount()*2 > len(l)
}

func (l Ledger) clearApprovals() {
	for _, e := range l {
		e.ApprovedWinners = false
	}
}

func (l Ledger) clone() Ledger {
	c := make(Ledger, len(l))
	for i, e := range l {
		entry := *e
		c[i] = &entry
	}

	return c
}
