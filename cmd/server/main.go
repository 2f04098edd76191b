package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chipstack-server/internal/config"
	"chipstack-server/internal/jwt"
	"chipstack-server/internal/mux"
	"chipstack-server/pkg/db"
	"chipstack-server/pkg/playable/poker/texasholdem"
	"chipstack-server/pkg/room"
	"chipstack-server/pkg/table"
	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Fatal("could not load .env file")
	}

	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("could not load configuration")
	}

	setupLogger()

	// fail fast
	if err := jwt.LoadKeys(); err != nil {
		logrus.WithError(err).Fatal("could not load keys")
	}

	store := newStore()

	cfg := config.Instance()
	pitBoss := room.NewPitBoss(store, texasholdem.Timing{
		AutoApproval:    cfg.WinnerSelection.AutoApprovalDelay,
		ApprovalTimeout: cfg.WinnerSelection.ApprovalTimeout,
	})

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, store, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logrus.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logrus.WithError(err).Error("could not shut down cleanly")
		}
	}()

	logrus.WithField("addr", srv.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("server stopped")
	}

	pitBoss.EndShift()
}

// newStore returns the configured table store
// The postgres store runs the migrations first
func newStore() table.Store {
	cfg := config.Instance()

	switch cfg.Store {
	case config.StoreMemory:
		logrus.Warn("using the memory store, tables are lost on restart")
		return table.NewMemoryStore()
	case config.StorePostgres:
		if err := db.Migrate(db.Instance(), cfg.MigrationsPath); err != nil {
			logrus.WithError(err).Fatal("could not run migrations")
		}

		store, err := table.NewPostgresStore(db.Instance(), cfg.TableCacheSize)
		if err != nil {
			logrus.WithError(err).Fatal("could not create store")
		}

		return store
	}

	logrus.WithField("store", cfg.Store).Fatal("unknown store")
	return nil
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
