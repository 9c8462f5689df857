// main.go
//
// Entry point for the game session server.
//   - Loads .env (best effort) and the environment configuration.
//   - Picks the session store (memory or Redis) and opens the results DB.
//   - Serves HTTP until SIGINT/SIGTERM, then shuts down gracefully.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wellplay/game-server/internal/config"
	"github.com/wellplay/game-server/internal/httpserver"
	"github.com/wellplay/game-server/internal/results"
	"github.com/wellplay/game-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	for _, k := range cfg.DevDefaults() {
		log.Warn().Str("var", k).Msg("using development default; set it for production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeStore := openSessionStore(ctx, cfg)
	defer closeStore()

	var rs *results.Store
	if cfg.DBDriver != "none" {
		db, err := results.Open(ctx, results.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open results db")
		}
		defer db.Close()
		rs = results.NewStore(db)
	} else {
		log.Warn().Msg("results persistence disabled")
	}

	srv := httpserver.New(httpserver.Options{
		Store:         sessions,
		Results:       rs,
		ClientOrigins: cfg.ClientOrigins,
		SessionSecret: cfg.SessionSecret,
		TokenTTL:      cfg.SessionTTL,
		CompleteDelay: cfg.CompleteDelay,
		DailySalt:     cfg.DailySalt,
	})

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("sessionStore", cfg.SessionStore).Msg("starting game-server")
		errc <- srv.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}
}

func openSessionStore(ctx context.Context, cfg config.Config) (store.Store, func()) {
	if cfg.SessionStore != "redis" {
		return store.NewMemoryStore(), func() {}
	}
	rdb, err := store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("connect redis")
	}
	return rdb, func() { _ = rdb.Close() }
}
