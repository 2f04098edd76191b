package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"chipstack-server/internal/metrics"
	"chipstack-server/pkg/playable"
	"chipstack-server/pkg/playable/poker/texasholdem"
	"chipstack-server/pkg/table"
	"github.com/sirupsen/logrus"
)

// ErrDealerClosed is returned for operations submitted after the dealer's shift ended
var ErrDealerClosed = errors.New("table is closed")

// operation names used for logging and metrics
const (
	opStartHand  = "start-hand"
	opAction     = "action"
	opCheck      = "check"
	opMarkWinner = "mark-winner"
	opApprove    = "approve"
)

// Dealer owns the game for a table
// Every operation on the game, including deferred checks, runs on the dealer's run loop one at a time
type Dealer struct {
	table       *table.Table
	store       table.Store
	game        *texasholdem.Game
	clients     map[*Client]bool
	lock        sync.RWMutex
	logMessages []*playable.LogMessage
	log         logrus.FieldLogger

	// afterFunc runs f after the duration on another goroutine
	afterFunc func(after time.Duration, f func())

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer object for the table
// The hand, if any, is resumed including its winner selection timers once the shift starts
func NewDealer(store table.Store, tbl *table.Table, players []*texasholdem.Player, timing texasholdem.Timing) (*Dealer, error) {
	d := &Dealer{
		table:   tbl,
		store:   store,
		clients: make(map[*Client]bool),
		log: logrus.WithFields(logrus.Fields{
			"uuid": tbl.UUID,
			"name": tbl.Name,
		}),
		afterFunc: func(after time.Duration, f func()) {
			time.AfterFunc(after, f)
		},
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}

	game, err := texasholdem.NewGame(d.log, players, tbl.Options, d)
	if err != nil {
		return nil, err
	}

	game.SetTiming(timing)
	d.game = game

	return d, nil
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

// ResumeHand restores the hand from storage
func (d *Dealer) ResumeHand(ctx context.Context, hand *texasholdem.Hand) error {
	return d.read(ctx, func() {
		d.game.ResumeHand(hand)
	})
}

func (d *Dealer) runLoop() {
	d.log.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case msgs := <-d.game.LogChan():
			d.addLogMessages(msgs)
			d.broadcast(&playable.Response{
				Key:  "log",
				Data: msgs,
			})
		case <-d.close:
			d.log.Debug("terminating dealer run loop")
			return
		}
	}
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)

	for _, client := range d.Clients() {
		client.Disconnect(ErrDealerClosed.Error())
	}
}

// Schedule implements texasholdem.Scheduler
// The check re-enters the run loop when the timer fires, and is dropped if the shift has ended
func (d *Dealer) Schedule(after time.Duration, check texasholdem.PendingCheck) {
	d.afterFunc(after, func() {
		d.enqueue(func() {
			applied := d.game.RunPendingCheck(check)
			metrics.Metrics.DeferredCheck(check.Kind.String(), applied)
			if applied {
				d.stateChanged(context.Background())
			}
		})
	})
}

// enqueue submits work to the run loop
func (d *Dealer) enqueue(fn func()) bool {
	select {
	case d.execInRunLoop <- fn:
		return true
	case <-d.close:
		return false
	}
}

// exec runs an operation on the run loop and waits for it to finish
// A successful operation is persisted and pushed to every connected client
func (d *Dealer) exec(ctx context.Context, operation string, fn func() error) error {
	result := make(chan error, 1)
	work := func() {
		var before texasholdem.BettingRound
		if h := d.game.Hand(); h != nil {
			before = h.Round
		}

		if err := fn(); err != nil {
			metrics.Metrics.OperationRejected(operation)
			result <- err
			return
		}

		metrics.Metrics.OperationCommitted(operation)
		if operation == opStartHand {
			metrics.Metrics.HandStarted()
		}

		if h := d.game.Hand(); h != nil && h.Round == texasholdem.RoundDistributed && before != texasholdem.RoundDistributed {
			metrics.Metrics.PotDistributed()
		}

		d.stateChanged(ctx)
		result <- nil
	}

	return d.wait(ctx, work, result)
}

// read runs fn on the run loop without persisting anything
func (d *Dealer) read(ctx context.Context, fn func()) error {
	result := make(chan error, 1)
	return d.wait(ctx, func() {
		fn()
		result <- nil
	}, result)
}

func (d *Dealer) wait(ctx context.Context, work func(), result chan error) error {
	select {
	case d.execInRunLoop <- work:
	case <-d.close:
		return ErrDealerClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-d.close:
		return ErrDealerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// seatFor maps the player to their seat
// NOTE: must only be called from the run loop
func (d *Dealer) seatFor(playerID int64) (int, error) {
	seat, ok := d.game.SeatForPlayer(playerID)
	if !ok {
		return 0, texasholdem.ErrSeatNotFound
	}

	return seat, nil
}

// StartHand starts the next hand
func (d *Dealer) StartHand(ctx context.Context, playerID int64) error {
	return d.exec(ctx, opStartHand, func() error {
		if _, err := d.seatFor(playerID); err != nil {
			return err
		}

		return d.game.StartHand()
	})
}

// CommitAction bets or folds for the player
func (d *Dealer) CommitAction(ctx context.Context, playerID int64, amount int) error {
	return d.exec(ctx, opAction, func() error {
		seat, err := d.seatFor(playerID)
		if err != nil {
			return err
		}

		return d.game.CommitAction(seat, amount)
	})
}

// Check checks for the player
func (d *Dealer) Check(ctx context.Context, playerID int64) error {
	return d.exec(ctx, opCheck, func() error {
		seat, err := d.seatFor(playerID)
		if err != nil {
			return err
		}

		return d.game.Check(seat)
	})
}

// MarkWinner toggles the winner flag on a seat
// Any seated player can mark winners
func (d *Dealer) MarkWinner(ctx context.Context, playerID int64, seat int) error {
	return d.exec(ctx, opMarkWinner, func() error {
		if _, err := d.seatFor(playerID); err != nil {
			return err
		}

		return d.game.MarkWinner(seat)
	})
}

// Approve approves the winners for the player
func (d *Dealer) Approve(ctx context.Context, playerID int64) error {
	return d.exec(ctx, opApprove, func() error {
		seat, err := d.seatFor(playerID)
		if err != nil {
			return err
		}

		return d.game.Approve(seat)
	})
}

// State returns the table as the player sees it
func (d *Dealer) State(ctx context.Context, playerID int64) (*texasholdem.ParticipantState, error) {
	var state *texasholdem.ParticipantState
	err := d.read(ctx, func() {
		state = d.stateFor(playerID)
	})

	return state, err
}

// LogMessages returns the most recent log messages
func (d *Dealer) LogMessages(ctx context.Context) ([]*playable.LogMessage, error) {
	var msgs []*playable.LogMessage
	err := d.read(ctx, func() {
		msgs = make([]*playable.LogMessage, len(d.logMessages))
		copy(msgs, d.logMessages)
	})

	return msgs, err
}

// stateFor returns the player's view, players who are not seated can watch
// NOTE: must only be called from the run loop
func (d *Dealer) stateFor(playerID int64) *texasholdem.ParticipantState {
	if state := d.game.GetPlayerState(playerID); state != nil {
		return state
	}

	return &texasholdem.ParticipantState{
		Seat:      -1,
		GameState: d.game.GetGameState(),
	}
}

// stateChanged persists the game and pushes the new state to each client
// NOTE: must only be called from the run loop
func (d *Dealer) stateChanged(ctx context.Context) {
	if err := d.store.SaveState(context.WithoutCancel(ctx), d.table.UUID, d.game.HandLog()); err != nil {
		d.log.WithError(err).Error("could not save hand")
	}

	d.sendGameData()
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	for _, client := range d.Clients() {
		client.Send(&playable.Response{
			Key:  "game",
			Data: d.stateFor(client.playerID),
		})
	}
}

func (d *Dealer) broadcast(msg interface{}) {
	for _, client := range d.Clients() {
		client.Send(msg)
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// AddClient adds a client and sends them the current state
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	metrics.Metrics.ClientConnected()
	d.enqueue(func() {
		client.Send(&playable.Response{
			Key:  "game",
			Data: d.stateFor(client.playerID),
		})

		if len(d.logMessages) > 0 {
			client.Send(&playable.Response{
				Key:  "log",
				Data: d.logMessages,
			})
		}
	})
}

// RemoveClient removes a client
// Returns true if no clients remain
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	if d.clients[client] {
		metrics.Metrics.ClientDisconnected()
	}

	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	return nClients == 0
}

// ReceivedMessage is called when a client sends a message over the websocket
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	go func() {
		ctx := context.Background()

		var err error
		switch msg.Action {
		case "startHand":
			err = d.StartHand(ctx, c.playerID)
		case "action":
			amount, ok := msg.AdditionalData.GetInt("amount")
			if !ok {
				err = texasholdem.ErrInvalidActionAmount
				break
			}

			err = d.CommitAction(ctx, c.playerID, amount)
		case "check":
			err = d.Check(ctx, c.playerID)
		case "markWinner":
			seat, ok := msg.AdditionalData.GetInt("seatPosition")
			if !ok {
				err = texasholdem.ErrSeatNotFound
				break
			}

			err = d.MarkWinner(ctx, c.playerID, seat)
		case "approve":
			err = d.Approve(ctx, c.playerID)
		default:
			d.log.WithField("msg", msg).Warn("unknown message")
			c.Send(playable.ErrorResponse(msg.Context, errors.New("unknown action")))
			return
		}

		if err != nil {
			d.log.WithError(err).WithField("client", c.String()).Debug("could not perform action")
			c.Send(playable.ErrorResponse(msg.Context, err))
			return
		}

		c.Send(playable.OK(msg.Context))
	}()
}
