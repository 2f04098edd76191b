package seating

import (
	"errors"
	"sort"
)

// ErrInsufficientPlayers is returned when fewer than two seats are occupied
var ErrInsufficientPlayers = errors.New("at least two seated players are required")

// Occupant is anything that can sit in a seat at the table
type Occupant interface {
	GetPlayerID() int64
	GetSeatPosition() int
	IsOut() bool
}

// Seat is an occupied seat
type Seat struct {
	Position int   `json:"position"`
	PlayerID int64 `json:"playerId"`
}

// Directory is the ordered list of occupied seats, lowest position first
type Directory struct {
	seats []Seat
}

// New builds a directory from the occupants, skipping anyone who is out
func New[T Occupant](occupants []T) *Directory {
	seats := make([]Seat, 0, len(occupants))
	for _, o := range occupants {
		if o.IsOut() {
			continue
		}

		seats = append(seats, Seat{
			Position: o.GetSeatPosition(),
			PlayerID: o.GetPlayerID(),
		})
	}

	sort.Slice(seats, func(i, j int) bool {
		return seats[i].Position < seats[j].Position
	})

	return &Directory{seats: seats}
}

// Len returns the number of occupied seats
func (d *Directory) Len() int {
	return len(d.seats)
}

// Seats returns a copy of the occupied seats
func (d *Directory) Seats() []Seat {
	seats := make([]Seat, len(d.seats))
	copy(seats, d.seats)
	return seats
}

// CanStartHand returns ErrInsufficientPlayers unless at least two seats are occupied
func (d *Directory) CanStartHand() error {
	if len(d.seats) < 2 {
		return ErrInsufficientPlayers
	}

	return nil
}

// Lowest returns the occupied seat with the lowest position
func (d *Directory) Lowest() (Seat, bool) {
	if len(d.seats) == 0 {
		return Seat{}, false
	}

	return d.seats[0], true
}

// Contains returns true if the position is occupied
func (d *Directory) Contains(position int) bool {
	i := sort.Search(len(d.seats), func(i int) bool {
		return d.seats[i].Position >= position
	})

	return i < len(d.seats) && d.seats[i].Position == position
}

// NextSeat returns the first seat after from, wrapping around the table, that satisfies
// the predicate. A nil predicate matches every seat.
// At most Len() seats are examined, so from itself is the last candidate when it is occupied.
func (d *Directory) NextSeat(from int, predicate func(Seat) bool) (Seat, bool) {
	n := len(d.seats)
	if n == 0 {
		return Seat{}, false
	}

	start := sort.Search(n, func(i int) bool {
		return d.seats[i].Position > from
	})

	for i := 0; i < n; i++ {
		seat := d.seats[(start+i)%n]
		if predicate == nil || predicate(seat) {
			return seat, true
		}
	}

	return Seat{}, false
}

// DealerSuccessor returns the next occupied seat strictly after the current dealer
func (d *Directory) DealerSuccessor(currentDealer int) (Seat, bool) {
	return d.NextSeat(currentDealer, func(seat Seat) bool {
		return seat.Position != currentDealer
	})
}
