package table

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chipstack-server/pkg/playable/poker/texasholdem"
	"github.com/google/uuid"
)

// Table represents a poker table
// The players seated at a table and the options are fixed when the table is created
type Table struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	// PlayerID is who created the table
	PlayerID int64               `json:"playerId"`
	Options  texasholdem.Options `json:"options"`
	Created  time.Time           `json:"created"`
}

// Seat is a request to seat a player
type Seat struct {
	PlayerID     int64 `json:"playerId"`
	SeatPosition int   `json:"seatPosition"`
}

// Store persists tables, their players, and the hand history
type Store interface {
	CreateTable(ctx context.Context, t *Table, players []*texasholdem.Player) error
	GetTable(ctx context.Context, uuid string) (*Table, error)
	GetPlayers(ctx context.Context, uuid string) ([]*texasholdem.Player, error)
	// SaveState records the players and the latest state of the hand atomically
	SaveState(ctx context.Context, uuid string, log *texasholdem.HandLog) error
	GetHand(ctx context.Context, uuid string, number int) (*texasholdem.HandLog, error)
	// GetCurrentHand returns the most recent hand, or nil if the table has not played one
	GetCurrentHand(ctx context.Context, uuid string) (*texasholdem.Hand, error)
}

// NewTable validates the request and returns a new table with its seated players
func NewTable(name string, creator int64, opts texasholdem.Options, seats []Seat, initialChips int) (*Table, []*texasholdem.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, UserError("table name is required")
	}

	if err := texasholdem.ValidateOptions(opts); err != nil {
		return nil, nil, UserError(err.Error())
	}

	if initialChips <= 0 {
		return nil, nil, UserError("initial chips must be greater than zero")
	}

	if len(seats) < 2 {
		return nil, nil, UserError("at least two players must be seated")
	}

	positions := make(map[int]bool)
	playerIDs := make(map[int64]bool)
	players := make([]*texasholdem.Player, 0, len(seats))
	for _, seat := range seats {
		if seat.PlayerID <= 0 {
			return nil, nil, UserError(fmt.Sprintf("invalid player ID: %d", seat.PlayerID))
		}

		if seat.SeatPosition < 0 {
			return nil, nil, UserError(fmt.Sprintf("invalid seat position: %d", seat.SeatPosition))
		}

		if positions[seat.SeatPosition] || playerIDs[seat.PlayerID] {
			return nil, nil, ErrDuplicateKey
		}

		positions[seat.SeatPosition] = true
		playerIDs[seat.PlayerID] = true
		players = append(players, &texasholdem.Player{
			PlayerID:     seat.PlayerID,
			SeatPosition: seat.SeatPosition,
			Balance:      initialChips,
			Status:       texasholdem.PlayerStatusApproved,
		})
	}

	return &Table{
		UUID:     uuid.New().String(),
		Name:     name,
		PlayerID: creator,
		Options:  opts,
		Created:  time.Now().UTC(),
	}, players, nil
}

// IsSeated returns true if the player has a seat
func IsSeated(players []*texasholdem.Player, playerID int64) bool {
	for _, p := range players {
		if p.PlayerID == playerID {
			return true
		}
	}

	return false
}

func copyPlayers(players []*texasholdem.Player) []*texasholdem.Player {
	c := make([]*texasholdem.Player, len(players))
	for i, p := range players {
		player := *p
		c[i] = &player
	}

	return c
}
