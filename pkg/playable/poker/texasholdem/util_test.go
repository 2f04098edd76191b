package texasholdem

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.t = f.t.Add(d)
}

type scheduledCheck struct {
	after time.Duration
	check PendingCheck
}

type recordingScheduler struct {
	checks []scheduledCheck
}

func (r *recordingScheduler) Schedule(after time.Duration, check PendingCheck) {
	r.checks = append(r.checks, scheduledCheck{after: after, check: check})
}

func (r *recordingScheduler) last() scheduledCheck {
	return r.checks[len(r.checks)-1]
}

// setupPlayers seats one player per balance, player N in seat N
func setupPlayers(balances ...int) []*Player {
	players := make([]*Player, len(balances))
	for i, b := range balances {
		players[i] = &Player{
			PlayerID:     int64(i + 1),
			SeatPosition: i + 1,
			Balance:      b,
			Status:       PlayerStatusApproved,
		}
	}

	return players
}

func setupGame(t *testing.T, balances ...int) (*Game, *recordingScheduler, *fakeClock) {
	t.Helper()
	return setupGameWithPlayers(t, setupPlayers(balances...))
}

func setupGameWithPlayers(t *testing.T, players []*Player) (*Game, *recordingScheduler, *fakeClock) {
	t.Helper()

	scheduler := &recordingScheduler{}
	clock := newFakeClock()

	g, err := NewGame(logrus.StandardLogger(), players, DefaultOptions(), scheduler)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	g.now = clock.Now
	return g, scheduler, clock
}

func balanceOf(g *Game, seat int) int {
	return g.playerAtSeat(seat).Balance
}

func turnSeat(g *Game) int {
	if g.hand.TurnSeat == nil {
		return -1
	}

	return *g.hand.TurnSeat
}

// assertLedger checks the properties that hold after every committed operation
func assertLedger(t *testing.T, g *Game) {
	t.Helper()

	h := g.hand
	assert.Equal(t, h.Entries.totalBet(), h.Pot, "pot equals every bet")
	for _, p := range g.players {
		assert.GreaterOrEqual(t, p.Balance, 0, "balance of seat %d", p.SeatPosition)
	}

	if h.Round.IsBettingRound() {
		assert.NotNil(t, h.TurnSeat, "someone is on turn")
	} else {
		assert.Nil(t, h.TurnSeat, "nobody is on turn")
	}
}

func commit(t *testing.T, g *Game, seat, amount int) {
	t.Helper()
	assert.NoError(t, g.CommitAction(seat, amount), "seat %d commits %d", seat, amount)
	assertLedger(t, g)
}

func check(t *testing.T, g *Game, seat int) {
	t.Helper()
	assert.NoError(t, g.Check(seat), "seat %d checks", seat)
	assertLedger(t, g)
}

// foldToSeat folds everyone except the given seat
func foldToSeat(t *testing.T, g *Game, seat int) {
	t.Helper()

	for g.hand.Round.IsBettingRound() {
		turn := turnSeat(g)
		if turn == seat {
			if toCall := g.hand.CurrentBet - g.hand.Entries.bySeat(seat).CurrentBet; toCall > 0 {
				commit(t, g, seat, toCall)
			} else {
				check(t, g, seat)
			}

			continue
		}

		commit(t, g, turn, 0)
	}
}

// checkDown has whoever is on turn check until betting is complete
func checkDown(t *testing.T, g *Game) {
	t.Helper()

	for g.hand.Round.IsBettingRound() {
		check(t, g, turnSeat(g))
	}
}

// runLastCheck fires the most recently scheduled deferred check
func runLastCheck(g *Game, s *recordingScheduler) bool {
	return g.RunPendingCheck(s.last().check)
}

// playToDistribution folds the hand to the seat, marks it the winner, and has everyone approve
func playToDistribution(t *testing.T, g *Game, s *recordingScheduler, seat int) {
	t.Helper()

	foldToSeat(t, g, seat)
	assert.NoError(t, g.MarkWinner(seat))
	assert.True(t, runLastCheck(g, s))

	for _, e := range g.hand.Entries {
		if g.hand.IsComplete() {
			break
		}

		assert.NoError(t, g.Approve(e.SeatPosition))
	}

	assert.Equal(t, RoundDistributed, g.hand.Round)
}
