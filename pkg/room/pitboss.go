package room

import (
	"context"
	"strings"
	"sync"

	"chipstack-server/internal/metrics"
	"chipstack-server/pkg/playable/poker/texasholdem"
	"chipstack-server/pkg/table"
	"github.com/sirupsen/logrus"
)

// PitBoss is responsible for dispatching players to dealers
// There is at most one dealer per table
type PitBoss struct {
	store   table.Store
	timing  texasholdem.Timing
	dealers map[string]*Dealer
	lock    sync.Mutex
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(store table.Store, timing texasholdem.Timing) *PitBoss {
	return &PitBoss{
		store:   store,
		timing:  timing,
		dealers: make(map[string]*Dealer),
	}
}

// DealerForTable returns the dealer for the table, starting one if needed
// A new dealer picks up the table's most recent hand where it left off
func (p *PitBoss) DealerForTable(ctx context.Context, uuid string) (*Dealer, error) {
	key := strings.ToLower(uuid)

	p.lock.Lock()
	defer p.lock.Unlock()

	if dealer, ok := p.dealers[key]; ok {
		return dealer, nil
	}

	tbl, err := p.store.GetTable(ctx, uuid)
	if err != nil {
		return nil, err
	}

	players, err := p.store.GetPlayers(ctx, uuid)
	if err != nil {
		return nil, err
	}

	hand, err := p.store.GetCurrentHand(ctx, uuid)
	if err != nil {
		return nil, err
	}

	dealer, err := NewDealer(p.store, tbl, players, p.timing)
	if err != nil {
		return nil, err
	}

	dealer.StartShift()
	if hand != nil {
		if err := dealer.ResumeHand(ctx, hand); err != nil {
			dealer.EndShift()
			return nil, err
		}
	}

	logrus.WithField("uuid", tbl.UUID).Debug("dealer started")
	p.dealers[key] = dealer
	metrics.Metrics.SetActiveTables(len(p.dealers))

	return dealer, nil
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(ctx context.Context, client *Client) error {
	dealer, err := p.DealerForTable(ctx, client.tableUUID)
	if err != nil {
		return err
	}

	logrus.WithField("client", client.String()).Debug("client connected")
	dealer.AddClient(client)
	return nil
}

// ClientDisconnected is called when a client disconnects from the server
// The dealer keeps running, HTTP callers and timers still need it
func (p *PitBoss) ClientDisconnected(client *Client) {
	logrus.WithError(client.CloseError).WithField("client", client.String()).Debug("client disconnected")
	if client.dealer != nil {
		client.dealer.RemoveClient(client)
	}
}

// EndShift stops every dealer
func (p *PitBoss) EndShift() {
	p.lock.Lock()
	defer p.lock.Unlock()

	for key, dealer := range p.dealers {
		dealer.EndShift()
		delete(p.dealers, key)
	}

	metrics.Metrics.SetActiveTables(0)
}
