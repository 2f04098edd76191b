package mux

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"chipstack-server/internal/jwt"
	"chipstack-server/pkg/room"
	"chipstack-server/pkg/table"
	gmux "github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ctxKey int

const (
	ctxPlayerIDKey ctxKey = iota
	ctxTableKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	store   table.Store
	pitBoss *room.PitBoss

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, store table.Store, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		store:   store,
		pitBoss: pitBoss,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.Handler())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())

		tr := r.PathPrefix("/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
		tr.Use(this.tableMiddleware)

		tr.Methods(http.MethodGet).Path("").Handler(this.getTableUUID())
		tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableUUIDWS())
		tr.Methods(http.MethodGet).Path("/hand/{number:[0-9]+}").Handler(this.getTableUUIDHandNumber())
		tr.Methods(http.MethodPost).Path("/hand").Handler(this.postTableUUIDHand())
		tr.Methods(http.MethodPost).Path("/hand/action").Handler(this.postTableUUIDHandAction())
		tr.Methods(http.MethodPost).Path("/hand/check").Handler(this.postTableUUIDHandCheck())
		tr.Methods(http.MethodPost).Path("/hand/winner").Handler(this.postTableUUIDHandWinner())
		tr.Methods(http.MethodPost).Path("/hand/approve").Handler(this.postTableUUIDHandApprove())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		id, err := jwt.ValidPlayerID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerIDKey, id)
		w.Header().Set("ChipStack-PlayerID", strconv.FormatInt(id, 10))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func playerIDFromContext(ctx context.Context) int64 {
	return ctx.Value(ctxPlayerIDKey).(int64)
}
