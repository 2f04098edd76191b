package table

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"chipstack-server/pkg/playable/poker/texasholdem"
	lru "github.com/hashicorp/golang-lru"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

const tableColumns = `
tables.uuid,
tables.name,
tables.player_id,
tables.options,
tables.created`

const seatColumns = `
seats.player_id,
seats.seat_position,
seats.balance,
seats.status`

type tableRow struct {
	UUID     string    `db:"uuid"`
	Name     string    `db:"name"`
	PlayerID int64     `db:"player_id"`
	Options  []byte    `db:"options"`
	Created  time.Time `db:"created"`
}

type seatRow struct {
	PlayerID     int64  `db:"player_id"`
	SeatPosition int    `db:"seat_position"`
	Balance      int    `db:"balance"`
	Status       string `db:"status"`
}

// PostgresStore keeps tables in Postgres
// Tables never change after they are created, so they are cached
type PostgresStore struct {
	db     *sqlx.DB
	tables *lru.Cache
}

// NewPostgresStore returns a store backed by the database
func NewPostgresStore(db *sql.DB, cacheSize int) (*PostgresStore, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialize table cache")
	}

	return &PostgresStore{
		db:     sqlx.NewDb(db, "postgres"),
		tables: cache,
	}, nil
}

// CreateTable inserts the table and seats its players
func (p *PostgresStore) CreateTable(ctx context.Context, t *Table, players []*texasholdem.Player) error {
	opts, err := json.Marshal(t.Options)
	if err != nil {
		return errors.Wrap(err, "could not encode options")
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}

	const query = `
INSERT INTO tables (uuid, name, player_id, options)
VALUES ($1, $2, $3, $4)
RETURNING created`
	if err := tx.GetContext(ctx, &t.Created, query, t.UUID, t.Name, t.PlayerID, opts); err != nil {
		rollback(tx)
		return wrapDuplicateKey(err, "could not insert table")
	}

	const seatQuery = `
INSERT INTO seats (table_uuid, player_id, seat_position, balance, status)
VALUES ($1, $2, $3, $4, $5)`
	for _, player := range players {
		if _, err := tx.ExecContext(ctx, seatQuery, t.UUID, player.PlayerID, player.SeatPosition, player.Balance, string(player.Status)); err != nil {
			rollback(tx)
			return wrapDuplicateKey(err, "could not seat player")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "could not commit table")
	}

	tbl := *t
	p.tables.Add(strings.ToLower(t.UUID), &tbl)
	return nil
}

// GetTable returns the table, from the cache when possible
func (p *PostgresStore) GetTable(ctx context.Context, uuid string) (*Table, error) {
	key := strings.ToLower(uuid)
	if v, ok := p.tables.Get(key); ok {
		tbl := *v.(*Table)
		return &tbl, nil
	}

	const query = `
SELECT ` + tableColumns + `
FROM tables
WHERE uuid = $1`

	var row tableRow
	if err := p.db.GetContext(ctx, &row, query, uuid); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, ErrTableNotFound
		}

		return nil, errors.Wrapf(err, "could not fetch table %s", uuid)
	}

	tbl := &Table{
		UUID:     row.UUID,
		Name:     row.Name,
		PlayerID: row.PlayerID,
		Created:  row.Created,
	}

	if err := json.Unmarshal(row.Options, &tbl.Options); err != nil {
		return nil, errors.Wrapf(err, "could not decode options for table %s", uuid)
	}

	cached := *tbl
	p.tables.Add(key, &cached)
	return tbl, nil
}

// GetPlayers returns the seated players in seat order
func (p *PostgresStore) GetPlayers(ctx context.Context, uuid string) ([]*texasholdem.Player, error) {
	if _, err := p.GetTable(ctx, uuid); err != nil {
		return nil, err
	}

	const query = `
SELECT ` + seatColumns + `
FROM seats
WHERE table_uuid = $1
ORDER BY seat_position`

	rows := make([]seatRow, 0)
	if err := p.db.SelectContext(ctx, &rows, query, uuid); err != nil {
		return nil, errors.Wrapf(err, "could not fetch players for table %s", uuid)
	}

	players := make([]*texasholdem.Player, len(rows))
	for i, row := range rows {
		players[i] = &texasholdem.Player{
			PlayerID:     row.PlayerID,
			SeatPosition: row.SeatPosition,
			Balance:      row.Balance,
			Status:       texasholdem.PlayerStatus(row.Status),
		}
	}

	return players, nil
}

// SaveState updates the balances and upserts the hand in a single transaction
func (p *PostgresStore) SaveState(ctx context.Context, uuid string, log *texasholdem.HandLog) error {
	if log == nil || log.Hand == nil {
		return nil
	}

	data, err := json.Marshal(log)
	if err != nil {
		return errors.Wrap(err, "could not encode hand")
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}

	const seatQuery = `
UPDATE seats
SET balance = $1, status = $2, updated = (NOW() AT TIME ZONE 'UTC')
WHERE table_uuid = $3
  AND player_id = $4`
	for _, player := range log.Players {
		if _, err := tx.ExecContext(ctx, seatQuery, player.Balance, string(player.Status), uuid, player.PlayerID); err != nil {
			rollback(tx)
			return errors.Wrapf(err, "could not update player %d", player.PlayerID)
		}
	}

	const handQuery = `
INSERT INTO hands (table_uuid, number, round, pot, data)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (table_uuid, number) DO UPDATE
SET round = EXCLUDED.round, pot = EXCLUDED.pot, data = EXCLUDED.data, updated = (NOW() AT TIME ZONE 'UTC')`
	if _, err := tx.ExecContext(ctx, handQuery, uuid, log.Hand.Number, log.Hand.Round.String(), log.Hand.Pot, data); err != nil {
		rollback(tx)
		return errors.Wrapf(err, "could not save hand %d", log.Hand.Number)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "could not commit hand")
	}

	return nil
}

// GetHand returns the hand by its number
func (p *PostgresStore) GetHand(ctx context.Context, uuid string, number int) (*texasholdem.HandLog, error) {
	const query = `
SELECT data
FROM hands
WHERE table_uuid = $1
  AND number = $2`

	return p.getHand(ctx, uuid, query, uuid, number)
}

// GetCurrentHand returns the most recent hand
func (p *PostgresStore) GetCurrentHand(ctx context.Context, uuid string) (*texasholdem.Hand, error) {
	const query = `
SELECT data
FROM hands
WHERE table_uuid = $1
ORDER BY number DESC
LIMIT 1`

	log, err := p.getHand(ctx, uuid, query, uuid)
	if err != nil {
		if errors.Is(err, ErrHandNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return log.Hand, nil
}

func (p *PostgresStore) getHand(ctx context.Context, uuid, query string, args ...interface{}) (*texasholdem.HandLog, error) {
	if _, err := p.GetTable(ctx, uuid); err != nil {
		return nil, err
	}

	var data []byte
	if err := p.db.GetContext(ctx, &data, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHandNotFound
		}

		return nil, errors.Wrapf(err, "could not fetch hand for table %s", uuid)
	}

	var log texasholdem.HandLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, errors.Wrap(err, "could not decode hand")
	}

	return &log, nil
}

func wrapDuplicateKey(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqDuplicateKeyErrorCode {
		return ErrDuplicateKey
	}

	return errors.Wrap(err, message)
}

// isInvalidUUID returns true when Postgres could not parse the UUID
func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "invalid_text_representation"
}

func rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil {
		logrus.WithError(err).Error("could not rollback transaction")
	}
}
