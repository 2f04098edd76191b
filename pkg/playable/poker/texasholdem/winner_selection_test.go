package texasholdem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGame_MarkWinner(t *testing.T) {
	a := assert.New(t)
	g, s, clock := setupGame(t, 100, 100, 100)

	a.Equal(ErrHandNotFound, g.MarkWinner(1))

	a.NoError(g.StartHand())
	a.Equal(ErrWrongPhaseForAction, g.MarkWinner(1))

	foldToSeat(t, g, 3)
	a.Equal(ErrFoldedWinner, g.MarkWinner(1))
	a.Equal(ErrSeatNotFound, g.MarkWinner(4))
	a.Len(s.checks, 0)

	a.NoError(g.MarkWinner(3))
	h := g.hand
	a.Equal(RoundSelectingWinners, h.Round)
	a.True(h.Entries.bySeat(3).IsWinner)
	a.Equal(clock.Now().UnixNano(), h.FenceToken)

	if a.Len(s.checks, 1) {
		a.Equal(5*time.Second, s.last().after)
		a.Equal(PendingCheck{Kind: CheckAutoApproval, HandNumber: 1, Token: h.FenceToken}, s.last().check)
	}
}

func TestGame_MarkWinner_toggleSupersedesPendingCheck(t *testing.T) {
	a := assert.New(t)
	g, s, clock := setupGame(t, 100, 100, 100)
	a.NoError(g.StartHand())
	foldToSeat(t, g, 3)

	a.NoError(g.MarkWinner(3))
	first := s.last().check

	clock.Advance(2 * time.Second)
	a.NoError(g.MarkWinner(3))
	second := s.last().check
	a.False(g.hand.Entries.bySeat(3).IsWinner)
	a.Greater(second.Token, first.Token)

	a.False(g.RunPendingCheck(first), "stale check")
	a.Equal(RoundSelectingWinners, g.hand.Round)

	a.False(g.RunPendingCheck(second), "nobody is marked")
	a.Equal(RoundSelectingWinners, g.hand.Round)
}

func TestGame_stamp(t *testing.T) {
	a := assert.New(t)
	g, s, _ := setupGame(t, 100, 100, 100)
	a.NoError(g.StartHand())
	foldToSeat(t, g, 3)

	// the clock does not move, but every mark still gets a new token
	a.NoError(g.MarkWinner(3))
	a.NoError(g.MarkWinner(3))
	a.NoError(g.MarkWinner(3))

	if a.Len(s.checks, 3) {
		a.Equal(s.checks[0].check.Token+1, s.checks[1].check.Token)
		a.Equal(s.checks[1].check.Token+1, s.checks[2].check.Token)
	}

	a.False(g.RunPendingCheck(s.checks[0].check))
	a.False(g.RunPendingCheck(s.checks[1].check))
	a.True(g.RunPendingCheck(s.checks[2].check))
}

func TestGame_RunPendingCheck_autoApproval(t *testing.T) {
	a := assert.New(t)
	g, s, clock := setupGame(t, 100, 100, 100)
	a.NoError(g.StartHand())
	foldToSeat(t, g, 3)

	a.NoError(g.MarkWinner(3))
	a.Equal(ErrWrongPhaseForAction, g.Approve(1))

	clock.Advance(5 * time.Second)
	a.True(runLastCheck(g, s))
	h := g.hand
	a.Equal(RoundApprovingWinners, h.Round)
	a.Equal(clock.Now().UnixNano(), h.FenceToken)

	if a.Len(s.checks, 2) {
		a.Equal(30*time.Second, s.last().after)
		a.Equal(PendingCheck{Kind: CheckApprovalTimeout, HandNumber: 1, Token: h.FenceToken}, s.last().check)
	}

	a.Equal(ErrWrongPhaseForAction, g.MarkWinner(2), "winners are locked while approving")
	a.False(g.RunPendingCheck(s.checks[0].check), "auto-approval already ran")
}

func TestGame_RunPendingCheck_timeout(t *testing.T) {
	a := assert.New(t)
	g, s, clock := setupGame(t, 100, 100, 100)
	a.NoError(g.StartHand())
	foldToSeat(t, g, 3)

	a.NoError(g.MarkWinner(3))
	a.True(runLastCheck(g, s))
	a.NoError(g.Approve(1))
	a.True(g.hand.Entries.bySeat(1).ApprovedWinners)

	clock.Advance(30 * time.Second)
	a.True(runLastCheck(g, s))
	h := g.hand
	a.Equal(RoundSelectingWinners, h.Round)
	a.False(h.Entries.bySeat(1).ApprovedWinners)
	a.True(h.Entries.bySeat(3).IsWinner, "winners are kept")

	if a.Len(s.checks, 3) {
		a.Equal(5*time.Second, s.last().after)
		a.Equal(CheckAutoApproval, s.last().check.Kind)
	}

	// the cycle repeats until a majority approves
	a.True(runLastCheck(g, s))
	a.Equal(RoundApprovingWinners, h.Round)
	a.NoError(g.Approve(1))
	a.NoError(g.Approve(2))
	a.Equal(RoundDistributed, h.Round)

	a.False(runLastCheck(g, s), "timeout after distribution")
	a.Equal(RoundDistributed, h.Round)
}

func TestGame_RunPendingCheck_otherHand(t *testing.T) {
	a := assert.New(t)
	g, s, _ := setupGame(t, 100, 100, 100)

	a.False(g.RunPendingCheck(PendingCheck{Kind: CheckAutoApproval, HandNumber: 1}))

	a.NoError(g.StartHand())
	playToDistribution(t, g, s, 3)
	stale := s.last().check

	a.NoError(g.StartHand())
	foldToSeat(t, g, 1)
	a.NoError(g.MarkWinner(1))

	a.False(g.RunPendingCheck(stale))
	a.False(g.RunPendingCheck(PendingCheck{Kind: CheckKind(99), HandNumber: 2, Token: g.hand.FenceToken}))
	a.Equal(RoundSelectingWinners, g.hand.Round)
}

func TestGame_Approve_majority(t *testing.T) {
	a := assert.New(t)
	g, s, _ := setupGame(t, 100, 100, 100, 100, 100)
	a.NoError(g.StartHand())
	foldToSeat(t, g, 3)

	a.NoError(g.MarkWinner(3))
	a.True(runLastCheck(g, s))

	a.NoError(g.Approve(1))
	a.NoError(g.Approve(2))
	a.NoError(g.Approve(2), "approving twice counts once")
	a.Equal(RoundApprovingWinners, g.hand.Round, "two of five is not a majority")
	a.Equal(ErrSeatNotFound, g.Approve(6))

	a.NoError(g.Approve(4))
	h := g.hand
	a.Equal(RoundDistributed, h.Round)
	a.Equal(15, h.Entries.bySeat(3).Winnings)
	a.Equal(105, balanceOf(g, 3))
	a.Equal(ErrWrongPhaseForAction, g.Approve(5))
}

func TestGame_distributePot_splitsWithRemainder(t *testing.T) {
	a := assert.New(t)
	g, s, _ := setupGame(t, 100, 100, 100)
	a.NoError(g.StartHand())

	commit(t, g, 1, 10)
	commit(t, g, 2, 0)
	check(t, g, 3)
	checkDown(t, g)
	a.Equal(25, g.hand.Pot)

	a.NoError(g.MarkWinner(3))
	a.NoError(g.MarkWinner(1))
	a.True(runLastCheck(g, s))
	a.NoError(g.Approve(2))
	a.NoError(g.Approve(3))

	h := g.hand
	a.Equal(RoundDistributed, h.Round)
	a.Equal(13, h.Entries.bySeat(1).Winnings, "lowest seat gets the remainder")
	a.Equal(12, h.Entries.bySeat(3).Winnings)
	a.Equal(0, h.Entries.bySeat(2).Winnings)
	a.Equal(103, balanceOf(g, 1))
	a.Equal(95, balanceOf(g, 2))
	a.Equal(102, balanceOf(g, 3))
	a.Equal(25, h.Pot)

	for _, p := range g.Players() {
		a.Equal(PlayerStatusActive, p.Status)
	}
}

func TestGame_distributePot_noWinners(t *testing.T) {
	a := assert.New(t)
	g, _, _ := setupGame(t, 100, 100)
	a.NoError(g.StartHand())
	foldToSeat(t, g, 1)

	g.hand.Round = RoundApprovingWinners
	g.distributePot(g.hand)
	a.Equal(RoundApprovingWinners, g.hand.Round)
	a.Equal(95, balanceOf(g, 2))
}
