package room

import (
	"context"
	"sync"
	"testing"
	"time"

	"chipstack-server/pkg/playable"
	"chipstack-server/pkg/playable/poker/texasholdem"
	"chipstack-server/pkg/table"
	"github.com/stretchr/testify/assert"
)

var cbg = context.Background()

type manualTimers struct {
	lock   sync.Mutex
	afters []time.Duration
	fns    []func()
}

func (m *manualTimers) afterFunc(after time.Duration, f func()) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.afters = append(m.afters, after)
	m.fns = append(m.fns, f)
}

func (m *manualTimers) count() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return len(m.fns)
}

// fire runs the timer callback as if the timer expired
func (m *manualTimers) fire(i int) {
	m.lock.Lock()
	f := m.fns[i]
	m.lock.Unlock()

	f()
}

func (m *manualTimers) fireLast() {
	m.fire(m.count() - 1)
}

func createTable(t *testing.T, store table.Store) *table.Table {
	t.Helper()

	seats := []table.Seat{
		{PlayerID: 1, SeatPosition: 1},
		{PlayerID: 2, SeatPosition: 2},
		{PlayerID: 3, SeatPosition: 3},
	}

	tbl, players, err := table.NewTable("Friday Night", 1, texasholdem.DefaultOptions(), seats, 100)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	assert.NoError(t, store.CreateTable(cbg, tbl, players))
	return tbl
}

func setupDealer(t *testing.T) (*Dealer, *table.MemoryStore, *manualTimers) {
	t.Helper()

	store := table.NewMemoryStore()
	tbl := createTable(t, store)
	players, err := store.GetPlayers(cbg, tbl.UUID)
	assert.NoError(t, err)

	d, err := NewDealer(store, tbl, players, texasholdem.DefaultTiming())
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	timers := &manualTimers{}
	d.afterFunc = timers.afterFunc
	d.StartShift()
	t.Cleanup(d.EndShift)

	return d, store, timers
}

// nextResponse waits for the next response with the key
func nextResponse(t *testing.T, c *Client, key string) *playable.Response {
	t.Helper()

	timeout := time.After(time.Second)
	for {
		select {
		case msg := <-c.SendChan():
			if res, ok := msg.(*playable.Response); ok && res.Key == key {
				return res
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", key)
			return nil
		}
	}
}
