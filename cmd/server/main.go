package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-notes-server/auth"
	"github.com/jrsteele09/go-notes-server/internal/config"
	apperrors "github.com/jrsteele09/go-notes-server/internal/errors"
	"github.com/jrsteele09/go-notes-server/internal/logging"
	"github.com/jrsteele09/go-notes-server/server"
	"github.com/jrsteele09/go-notes-server/token"
	"github.com/jrsteele09/go-notes-server/users"
	"github.com/jrsteele09/go-notes-server/users/postgres"
	fakeuserrepo "github.com/jrsteele09/go-notes-server/users/repofake"
)

func main() {
	// The registry outlives restarts of run.
	registry := token.NewInMemoryRegistry()
	for {
		err := run(registry)
		if err == nil {
			break
		}
		var cfgErr *apperrors.ConfigurationError
		if errors.As(err, &cfgErr) {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
		log.Error().Err(err).Msg("error running server, restarting")
		time.Sleep(1 * time.Second)
	}
	log.Info().Msg("Server stopped")
}

func run(registry token.Registry) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	logging.Init(c.GetAppName(), c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	ctx := context.Background()
	store, closer, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer closer.Close()

	handler, err := newHandler(c, store, registry)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// newHandler wires the auth core and HTTP surface over store and registry.
func newHandler(c config.Config, store users.Store, registry token.Registry) (http.Handler, error) {
	codec, err := token.NewHMACCodec(c.GetSecretKey(), c.GetAlgorithm(), token.WithDefaultTTL(c.GetDefaultAccessTokenExpiry()))
	if err != nil {
		return nil, err
	}
	logoutMode, err := auth.ParseLogoutMode(c.GetLogoutMode())
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewAuthService(store, codec, registry,
		auth.WithHasher(users.NewBcryptHasher(c.GetBcryptCost())),
		auth.WithServiceLogoutMode(logoutMode),
	)
	if err != nil {
		return nil, fmt.Errorf("auth.NewAuthService: %w", err)
	}

	handler, err := server.New(c, authService, registry)
	if err != nil {
		return nil, fmt.Errorf("server.New: %w", err)
	}
	return handler, nil
}

// openStore returns the postgres store when DATABASE_URL is set and the
// in-memory store otherwise.
func openStore(ctx context.Context, c config.Config) (users.Store, io.Closer, error) {
	if c.GetDatabaseURL() == "" {
		log.Warn().Msg("DATABASE_URL not set, users are kept in memory")
		return fakeuserrepo.NewFakeStore(), io.NopCloser(nil), nil
	}

	db, err := postgres.Open(ctx, c.GetDatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("postgres.Open: %w", err)
	}
	store := postgres.NewStore(db)
	if c.GetMigrateOnStart() {
		if err := store.RunMigrations(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return store, db, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
