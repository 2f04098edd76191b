package texasholdem

import (
	"fmt"
	"sort"
	"time"

	"chipstack-server/pkg/playable"
	"chipstack-server/pkg/playable/poker/seating"
	"github.com/sirupsen/logrus"
)

// CheckKind identifies a deferred winner selection check
type CheckKind int

// CheckKind constants
const (
	CheckAutoApproval CheckKind = iota
	CheckApprovalTimeout
)

func (c CheckKind) String() string {
	switch c {
	case CheckAutoApproval:
		return "auto-approval"
	case CheckApprovalTimeout:
		return "approval-timeout"
	}

	return "unknown"
}

// PendingCheck is deferred work scheduled by winner selection
// Token is the hand's fence token at the time the check was scheduled
type PendingCheck struct {
	Kind       CheckKind `json:"kind"`
	HandNumber int       `json:"handNumber"`
	Token      int64     `json:"token"`
}

// Scheduler runs a pending check after a delay
// Implementations must call Game.RunPendingCheck on the same serialized path as every other operation
type Scheduler interface {
	Schedule(after time.Duration, check PendingCheck)
}

// Game tracks chips for a table of seated players and the hand currently being played
// A Game is not safe for concurrent use, callers must serialize every operation
type Game struct {
	options   Options
	timing    Timing
	players   []*Player
	hand      *Hand
	scheduler Scheduler
	now       func() time.Time
	logger    logrus.FieldLogger
	logChan   chan []*playable.LogMessage
}

// NewGame returns a new game for the seated players
func NewGame(logger logrus.FieldLogger, players []*Player, opts Options, scheduler Scheduler) (*Game, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(players))
	roster := make([]*Player, len(players))
	for i, p := range players {
		if seen[p.SeatPosition] {
			return nil, fmt.Errorf("seat %d is occupied by more than one player", p.SeatPosition)
		}

		if p.Balance < 0 {
			return nil, fmt.Errorf("player %d has a negative balance", p.PlayerID)
		}

		seen[p.SeatPosition] = true
		roster[i] = p
	}

	sort.Slice(roster, func(i, j int) bool {
		return roster[i].SeatPosition < roster[j].SeatPosition
	})

	return &Game{
		options:   opts,
		timing:    DefaultTiming(),
		players:   roster,
		scheduler: scheduler,
		now:       time.Now,
		logger:    logger,
		logChan:   make(chan []*playable.LogMessage, 256),
	}, nil
}

// SetTiming overrides the winner selection timers
func (g *Game) SetTiming(timing Timing) {
	g.timing = timing
}

// StartHand deals a new hand, rotates the dealer, and posts the blinds
func (g *Game) StartHand() error {
	prev := g.hand
	if prev != nil && !prev.IsComplete() {
		return ErrHandInProgress
	}

	if err := seating.New(g.players).CanStartHand(); err != nil {
		return ErrInsufficientPlayers
	}

	eligible := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		if !p.IsOut() && p.Balance > 0 {
			eligible = append(eligible, p)
		}
	}

	if len(eligible) < 2 {
		return ErrNotEnoughEligiblePlayers
	}

	for _, p := range g.players {
		if !p.IsOut() && p.Balance == 0 {
			p.Status = PlayerStatusOut
		}
	}

	seats := seating.New(eligible)

	number := 1
	dealer, _ := seats.Lowest()
	if prev != nil {
		number = prev.Number + 1
		dealer, _ = seats.DealerSuccessor(prev.DealerSeat)
	}

	h := &Hand{
		Number:     number,
		DealerSeat: dealer.Position,
		Round:      RoundPreFlop,
		Entries:    make(Ledger, 0, seats.Len()),
		Started:    g.now(),
	}

	for _, seat := range seats.Seats() {
		p := g.playerAtSeat(seat.Position)
		p.Status = PlayerStatusActive
		h.Entries = append(h.Entries, newEntry(p))
	}

	smallBlind, _ := seats.NextSeat(h.DealerSeat, nil)
	bigBlind, _ := seats.NextSeat(smallBlind.Position, nil)
	h.SmallBlindSeat = smallBlind.Position
	h.BigBlindSeat = bigBlind.Position

	g.hand = h

	logs := []*playable.LogMessage{
		playable.SimpleLogMessage(dealer.PlayerID, "Hand #%d started, {} is the dealer", h.Number),
	}
	logs = append(logs, g.postBlind(h, smallBlind.Position, g.options.SmallBlind, "small"))
	logs = append(logs, g.postBlind(h, bigBlind.Position, g.options.BigBlind, "big"))
	h.CurrentBet = g.options.BigBlind

	if first, ok := h.seats().NextSeat(h.BigBlindSeat, h.canActAt); ok {
		h.setTurn(first.Position)
	} else {
		h.completeBetting()
		logs = append(logs, playable.SimpleLogMessage(0, "Everyone is all-in, betting is complete"))
	}

	g.logger.WithFields(logrus.Fields{
		"hand":   h.Number,
		"dealer": h.DealerSeat,
		"pot":    h.Pot,
	}).Info("hand started")

	g.sendLogMessages(logs...)
	return nil
}

// ResumeHand restores a hand, for example after a restart, and re-arms any winner selection timer
func (g *Game) ResumeHand(h *Hand) {
	if h == nil {
		return
	}

	g.hand = h.clone()

	switch g.hand.Round {
	case RoundSelectingWinners:
		g.schedule(g.hand, CheckAutoApproval, g.timing.AutoApproval)
	case RoundApprovingWinners:
		g.schedule(g.hand, CheckApprovalTimeout, g.timing.ApprovalTimeout)
	}
}

// Options returns the table options
func (g *Game) Options() Options {
	return g.options
}

// Hand returns a copy of the current hand, or nil if no hand has been started
func (g *Game) Hand() *Hand {
	if g.hand == nil {
		return nil
	}

	return g.hand.clone()
}

// Players returns a copy of the roster in seat order
func (g *Game) Players() []*Player {
	players := make([]*Player, len(g.players))
	for i, p := range g.players {
		players[i] = p.clone()
	}

	return players
}

// SeatForPlayer returns the seat position of the player
func (g *Game) SeatForPlayer(playerID int64) (int, bool) {
	for _, p := range g.players {
		if p.PlayerID == playerID {
			return p.SeatPosition, true
		}
	}

	return 0, false
}

// LogChan returns a channel of log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

func (g *Game) playerAtSeat(position int) *Player {
	for _, p := range g.players {
		if p.SeatPosition == position {
			return p
		}
	}

	return nil
}

func (g *Game) schedule(h *Hand, kind CheckKind, after time.Duration) {
	if g.scheduler == nil {
		g.logger.WithField("check", kind.String()).Warn("no scheduler, deferred check dropped")
		return
	}

	g.scheduler.Schedule(after, PendingCheck{
		Kind:       kind,
		HandNumber: h.Number,
		Token:      h.FenceToken,
	})
}

// stamp moves the fence token forward
// The token is the current time, but never goes backwards or repeats
func (g *Game) stamp(h *Hand) {
	token := g.now().UnixNano()
	if token <= h.FenceToken {
		token = h.FenceToken + 1
	}

	h.FenceToken = token
}

func (g *Game) sendLogMessages(msgs ...*playable.LogMessage) {
	if len(msgs) == 0 {
		return
	}

	select {
	case g.logChan <- msgs:
	default:
		g.logger.WithField("messages", len(msgs)).Warn("log channel is full, dropping messages")
	}
}
