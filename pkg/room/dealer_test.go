package room

import (
	"context"
	"testing"
	"time"

	"chipstack-server/pkg/playable"
	"chipstack-server/pkg/playable/poker/texasholdem"
	"github.com/stretchr/testify/assert"
)

func TestDealer_playsAHand(t *testing.T) {
	a := assert.New(t)
	d, store, timers := setupDealer(t)

	a.Equal(texasholdem.ErrSeatNotFound, d.StartHand(cbg, 9))
	a.NoError(d.StartHand(cbg, 1))
	a.Equal(texasholdem.ErrHandInProgress, d.StartHand(cbg, 2))

	a.Equal(texasholdem.ErrNotYourTurn, d.CommitAction(cbg, 2, 10))
	a.NoError(d.CommitAction(cbg, 1, 0))
	a.NoError(d.CommitAction(cbg, 2, 0))

	state, err := d.State(cbg, 3)
	a.NoError(err)
	a.Equal(texasholdem.RoundBettingComplete, state.GameState.Hand.Round)
	a.True(state.CanMarkWinners)

	a.NoError(d.MarkWinner(cbg, 1, 3))
	if a.Equal(1, timers.count()) {
		a.Equal(5*time.Second, timers.afters[0])
	}

	timers.fireLast()
	state, err = d.State(cbg, 1)
	a.NoError(err)
	a.Equal(texasholdem.RoundApprovingWinners, state.GameState.Hand.Round)
	a.True(state.CanApprove)
	a.Equal(2, timers.count())

	a.NoError(d.Approve(cbg, 1))
	a.NoError(d.Approve(cbg, 2))

	log, err := store.GetHand(cbg, d.table.UUID, 1)
	a.NoError(err)
	a.Equal(texasholdem.RoundDistributed, log.Hand.Round)
	a.Equal(15, log.Hand.Entries[2].Winnings)

	players, err := store.GetPlayers(cbg, d.table.UUID)
	a.NoError(err)
	a.Equal(100, players[0].Balance)
	a.Equal(95, players[1].Balance)
	a.Equal(105, players[2].Balance)

	// the approval timeout fires after the pot was paid
	timers.fireLast()
	state, err = d.State(cbg, 1)
	a.NoError(err)
	a.Equal(texasholdem.RoundDistributed, state.GameState.Hand.Round)
}

func TestDealer_staleTimer(t *testing.T) {
	a := assert.New(t)
	d, _, timers := setupDealer(t)

	a.NoError(d.StartHand(cbg, 1))
	a.NoError(d.CommitAction(cbg, 1, 0))
	a.NoError(d.CommitAction(cbg, 2, 0))

	a.NoError(d.MarkWinner(cbg, 1, 3))
	a.NoError(d.MarkWinner(cbg, 2, 3))
	a.NoError(d.MarkWinner(cbg, 3, 3))
	a.Equal(3, timers.count())

	for i := 0; i < 2; i++ {
		timers.fire(i)
		state, err := d.State(cbg, 1)
		a.NoError(err)
		a.Equal(texasholdem.RoundSelectingWinners, state.GameState.Hand.Round, "timer %d was superseded", i)
	}

	timers.fire(2)
	state, err := d.State(cbg, 1)
	a.NoError(err)
	a.Equal(texasholdem.RoundApprovingWinners, state.GameState.Hand.Round)
}

func TestDealer_State_spectator(t *testing.T) {
	a := assert.New(t)
	d, _, _ := setupDealer(t)

	state, err := d.State(cbg, 42)
	a.NoError(err)
	a.Equal(-1, state.Seat)
	a.Empty(state.Actions)
	a.Len(state.GameState.Players, 3)
}

func TestDealer_LogMessages(t *testing.T) {
	d, _, _ := setupDealer(t)
	assert.NoError(t, d.StartHand(cbg, 1))

	assert.Eventually(t, func() bool {
		msgs, err := d.LogMessages(cbg)
		return err == nil && len(msgs) == 3
	}, time.Second, time.Millisecond*10)
}

func TestDealer_addLogMessages(t *testing.T) {
	a := assert.New(t)
	d := &Dealer{}

	for i := 0; i < 30; i++ {
		d.addLogMessages([]*playable.LogMessage{playable.SimpleLogMessage(0, "message %d", i)})
	}

	a.Len(d.logMessages, logMessageLimit)
	a.Equal("message 5", d.logMessages[0].Message)
	a.Equal("message 29", d.logMessages[24].Message)
}

func TestDealer_clients(t *testing.T) {
	a := assert.New(t)
	d, _, _ := setupDealer(t)

	c := NewClient(nil, 1, d.table.UUID)
	c2 := NewClient(nil, 42, d.table.UUID)
	d.AddClient(c)
	d.AddClient(c2)
	a.Len(d.Clients(), 2)

	res := nextResponse(t, c, "game")
	a.Equal(1, res.Data.(*texasholdem.ParticipantState).Seat)
	res = nextResponse(t, c2, "game")
	a.Equal(-1, res.Data.(*texasholdem.ParticipantState).Seat)

	a.NoError(d.StartHand(cbg, 1))
	res = nextResponse(t, c, "game")
	state := res.Data.(*texasholdem.ParticipantState)
	a.Equal(1, state.GameState.Hand.Number)
	a.NotEmpty(state.Actions, "seat 1 is first to act")

	c.ReceivedMessage(&playable.PayloadIn{
		Action:         "action",
		AdditionalData: playable.AdditionalData{"amount": float64(10)},
		Context:        "call",
	})
	a.Equal(playable.OK("call"), nextResponse(t, c, "status"))

	c2.ReceivedMessage(&playable.PayloadIn{Action: "approve", Context: "ctx"})
	a.Equal(playable.ErrorResponse("ctx", texasholdem.ErrSeatNotFound), nextResponse(t, c2, "error"))

	c.ReceivedMessage(&playable.PayloadIn{Action: "dance", Context: "ctx"})
	a.Equal("unknown action", nextResponse(t, c, "error").Value)

	a.False(d.RemoveClient(c))
	a.True(d.RemoveClient(c2))
}

func TestDealer_EndShift(t *testing.T) {
	d, _, _ := setupDealer(t)
	closed := &Dealer{
		execInRunLoop: make(chan func()),
		close:         make(chan bool),
	}
	closed.EndShift()

	ctx, cancel := context.WithTimeout(cbg, time.Second)
	defer cancel()
	assert.Equal(t, ErrDealerClosed, closed.read(ctx, func() {}))
	assert.False(t, closed.enqueue(func() {}))

	assert.True(t, d.enqueue(func() {}))
}

func TestDealer_EndShift_disconnectsClients(t *testing.T) {
	c := NewClient(nil, 1, "table")
	d := &Dealer{
		clients:       map[*Client]bool{c: true},
		execInRunLoop: make(chan func()),
		close:         make(chan bool),
	}
	d.EndShift()

	select {
	case reason := <-c.Close:
		assert.Equal(t, ErrDealerClosed.Error(), reason)
	default:
		t.Error("expected the client to be disconnected")
	}

	// a second request does not block
	c.Disconnect("again")
	c.Disconnect("and again")
}
