package texasholdem

// PlayerStatus is where a seated player is in their lifecycle at the table
type PlayerStatus string

// PlayerStatus constants
// pending and approved are waiting-room states managed outside of a hand
const (
	PlayerStatusPending  PlayerStatus = "pending"
	PlayerStatusApproved PlayerStatus = "approved"
	PlayerStatusActive   PlayerStatus = "active"
	PlayerStatusFolded   PlayerStatus = "folded"
	PlayerStatusAllIn    PlayerStatus = "all-in"
	PlayerStatusOut      PlayerStatus = "out"
)

// Player is a seated player whose chips are tracked from hand to hand
// Balance is only changed by betting and by pot distribution
type Player struct {
	PlayerID     int64        `json:"playerId"`
	SeatPosition int          `json:"seatPosition"`
	Balance      int          `json:"balance"`
	Status       PlayerStatus `json:"status"`
}

// GetPlayerID returns the player ID
func (p *Player) GetPlayerID() int64 {
	return p.PlayerID
}

// GetSeatPosition returns the seat position
func (p *Player) GetSeatPosition() int {
	return p.SeatPosition
}

// IsOut returns true if the player can no longer be dealt in
func (p *Player) IsOut() bool {
	return p.Status == PlayerStatusOut
}

// potmanager.Participant interface

// ID returns the player ID
func (p *Player) ID() int64 {
	return p.PlayerID
}

// AdjustBalance credits the player with the amount
func (p *Player) AdjustBalance(amount int) {
	p.Balance += amount
}

func (p *Player) clone() *Player {
	c := *p
	return &c
}
