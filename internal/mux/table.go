package mux

import (
	"context"
	"net/http"
	"strconv"

	"chipstack-server/pkg/playable/poker/texasholdem"
	"chipstack-server/pkg/room"
	"chipstack-server/pkg/table"
	"github.com/gorilla/mux"
)

type postTablePayload struct {
	Name string `json:"name"`
	// Options are optional, the default blinds are used when missing
	Options      *texasholdem.Options `json:"options"`
	Seats        []table.Seat         `json:"seats"`
	InitialChips int                  `json:"initialChips"`
}

type tableResponse struct {
	*table.Table
	Players []*texasholdem.Player `json:"players"`
}

func (m *Mux) postTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postTablePayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		opts := texasholdem.DefaultOptions()
		if pp.Options != nil {
			opts = *pp.Options
		}

		playerID := playerIDFromContext(r.Context())
		tbl, players, err := table.NewTable(pp.Name, playerID, opts, pp.Seats, pp.InitialChips)
		if err != nil {
			writeError(w, err)
			return
		}

		if err := m.store.CreateTable(r.Context(), tbl, players); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, tableResponse{
			Table:   tbl,
			Players: players,
		})
	}
}

type getTableUUIDResponse struct {
	*table.Table
	State *texasholdem.ParticipantState `json:"state"`
}

func (m *Mux) getTableUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl := r.Context().Value(ctxTableKey).(*table.Table)
		dealer, err := m.pitBoss.DealerForTable(r.Context(), tbl.UUID)
		if err != nil {
			writeError(w, err)
			return
		}

		state, err := dealer.State(r.Context(), playerIDFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, getTableUUIDResponse{
			Table: tbl,
			State: state,
		})
	}
}

func (m *Mux) getTableUUIDHandNumber() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl := r.Context().Value(ctxTableKey).(*table.Table)
		number, err := strconv.Atoi(mux.Vars(r)["number"])
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		log, err := m.store.GetHand(r.Context(), tbl.UUID, number)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, log)
	}
}

type postActionPayload struct {
	Amount int `json:"amount"`
}

type postWinnerPayload struct {
	SeatPosition int `json:"seatPosition"`
}

func (m *Mux) postTableUUIDHand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.dealerOperation(w, r, func(ctx context.Context, d *room.Dealer, playerID int64) error {
			return d.StartHand(ctx, playerID)
		})
	}
}

func (m *Mux) postTableUUIDHandAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postActionPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		m.dealerOperation(w, r, func(ctx context.Context, d *room.Dealer, playerID int64) error {
			return d.CommitAction(ctx, playerID, payload.Amount)
		})
	}
}

func (m *Mux) postTableUUIDHandCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.dealerOperation(w, r, func(ctx context.Context, d *room.Dealer, playerID int64) error {
			return d.Check(ctx, playerID)
		})
	}
}

func (m *Mux) postTableUUIDHandWinner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload postWinnerPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		m.dealerOperation(w, r, func(ctx context.Context, d *room.Dealer, playerID int64) error {
			return d.MarkWinner(ctx, playerID, payload.SeatPosition)
		})
	}
}

func (m *Mux) postTableUUIDHandApprove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.dealerOperation(w, r, func(ctx context.Context, d *room.Dealer, playerID int64) error {
			return d.Approve(ctx, playerID)
		})
	}
}

// dealerOperation runs fn against the table's dealer and replies with the caller's view of the table
func (m *Mux) dealerOperation(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, d *room.Dealer, playerID int64) error) {
	tbl := r.Context().Value(ctxTableKey).(*table.Table)
	playerID := playerIDFromContext(r.Context())
	dealer, err := m.pitBoss.DealerForTable(r.Context(), tbl.UUID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := fn(r.Context(), dealer, playerID); err != nil {
		writeError(w, err)
		return
	}

	state, err := dealer.State(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uuid := mux.Vars(r)["uuid"]
		tbl, err := m.store.GetTable(r.Context(), uuid)
		if err != nil {
			writeError(w, err)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, tbl)

		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
