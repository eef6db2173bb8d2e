package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/jekabolt/woometrics/app"
	"github.com/jekabolt/woometrics/config"
	"github.com/jekabolt/woometrics/log"
	"github.com/spf13/cobra"
)

// run serves the metrics API until a signal arrives or the HTTP server exits on its own.
// The ad spend reconfigure worker runs for the same lifetime.
func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	logger := log.Setup(cfg.Logger)
	logger.Info("woometrics starting",
		slog.String("version", version),
		slog.String("store", cfg.Store.URL),
		slog.String("ad_spend_source", cfg.AdSpend.Source),
		slog.Bool("auth", cfg.Auth.JWTSecret != ""),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	a := app.New(cfg)
	if err := a.Start(ctx); err != nil {
		a.Close()
		return fmt.Errorf("cannot start the application %v", err.Error())
	}

	select {
	case <-ctx.Done():
		logger.Warn("signal received, draining requests and stopping the reconfigure worker")
		// ctx is cancelled here; Stop bounds its own shutdown.
		a.Stop(context.Background())
		logger.Info("application exited")
		return nil
	case <-a.Done():
		a.Stop(context.Background())
		logger.Error("http server exited unexpectedly")
		return errors.New("http server exited")
	}
}
