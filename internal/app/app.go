// Package app wires configuration, storage, seeding and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kalibracloud/internal/auth"
	"kalibracloud/internal/config"
	"kalibracloud/internal/seed"
	"kalibracloud/internal/server"
	"kalibracloud/internal/service"
	"kalibracloud/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// OpenStore returns the relational store when a DSN is configured and the
// in-memory one otherwise.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	if cfg.DBDSN == "" {
		log.Info("using in-memory store; data resets on restart")
		return store.NewMemory(), nil
	}
	return store.OpenPostgres(ctx, cfg.DBDSN, log)
}

// Serve runs the web server until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.EphemeralSecret {
		log.Warn("SESSION_SECRET is not set; sessions will not survive a restart")
	}

	st, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	ds, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	pw := auth.NewBcrypt(0)
	if err := seed.Apply(ctx, ds, st, pw, log); err != nil {
		return err
	}

	svc := service.New(st, pw, log)
	router, err := server.NewRouter(server.Options{
		GinMode:       cfg.GinMode,
		SessionSecret: cfg.SessionSecret,
	}, svc, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
