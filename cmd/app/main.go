package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"minesweeper/ai"
	"minesweeper/config"
	"minesweeper/logging"
	"minesweeper/server"
	"minesweeper/session"
	"minesweeper/solver"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	var net *ai.Network
	if cfg.WeightsPath != "" {
		if net, err = ai.LoadNetwork(cfg.WeightsPath); err != nil {
			return err
		}
		if err := solver.CheckNetwork(net); err != nil {
			return fmt.Errorf("%s: %w", cfg.WeightsPath, err)
		}
		log.WithField("path", cfg.WeightsPath).Info("bot network loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore(cfg.UndoDepth)
	go store.Run(ctx, cfg.SessionTTL, cfg.SweepInterval, func(n int) {
		if n > 0 {
			log.WithFields(logrus.Fields{"removed": n, "left": store.Len()}).Info("idle sessions swept")
		}
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(cfg, store, log, net).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "static": cfg.StaticDir}).Info("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
