package table

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"chipstack-server/pkg/playable/poker/texasholdem"
)

type memoryTable struct {
	table   Table
	players []*texasholdem.Player
	// hands are kept as JSON, the same way the Postgres store keeps them
	hands   map[int][]byte
	current int
}

// MemoryStore keeps everything in process
// State is lost when the process exits
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*memoryTable
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]*memoryTable),
	}
}

// CreateTable stores the table
func (m *MemoryStore) CreateTable(ctx context.Context, t *Table, players []*texasholdem.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(t.UUID)
	if _, ok := m.tables[key]; ok {
		return ErrDuplicateKey
	}

	m.tables[key] = &memoryTable{
		table:   *t,
		players: copyPlayers(players),
		hands:   make(map[int][]byte),
	}

	return nil
}

func (m *MemoryStore) get(uuid string) (*memoryTable, error) {
	t, ok := m.tables[strings.ToLower(uuid)]
	if !ok {
		return nil, ErrTableNotFound
	}

	return t, nil
}

// GetTable returns the table
func (m *MemoryStore) GetTable(ctx context.Context, uuid string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.get(uuid)
	if err != nil {
		return nil, err
	}

	tbl := t.table
	return &tbl, nil
}

// GetPlayers returns the players seated at the table
func (m *MemoryStore) GetPlayers(ctx context.Context, uuid string) ([]*texasholdem.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.get(uuid)
	if err != nil {
		return nil, err
	}

	return copyPlayers(t.players), nil
}

// SaveState records the players and the hand
func (m *MemoryStore) SaveState(ctx context.Context, uuid string, log *texasholdem.HandLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.get(uuid)
	if err != nil {
		return err
	}

	if log == nil || log.Hand == nil {
		return nil
	}

	b, err := json.Marshal(log)
	if err != nil {
		return err
	}

	t.players = copyPlayers(log.Players)
	t.hands[log.Hand.Number] = b
	if log.Hand.Number > t.current {
		t.current = log.Hand.Number
	}

	return nil
}

// GetHand returns the hand by its number
func (m *MemoryStore) GetHand(ctx context.Context, uuid string, number int) (*texasholdem.HandLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, err := m.get(uuid)
	if err != nil {
		return nil, err
	}

	b, ok := t.hands[number]
	if !ok {
		return nil, ErrHandNotFound
	}

	var log texasholdem.HandLog
	if err := json.Unmarshal(b, &log); err != nil {
		return nil, err
	}

	return &log, nil
}

// GetCurrentHand returns the latest hand
func (m *MemoryStore) GetCurrentHand(ctx context.Context, uuid string) (*texasholdem.Hand, error) {
	m.mu.RLock()
	current := 0
	if t, err := m.get(uuid); err == nil {
		current = t.current
	}
	m.mu.RUnlock()

	if current == 0 {
		if _, err := m.GetTable(ctx, uuid); err != nil {
			return nil, err
		}

		return nil, nil
	}

	log, err := m.GetHand(ctx, uuid, current)
	if err != nil {
		return nil, err
	}

	return log.Hand, nil
}
