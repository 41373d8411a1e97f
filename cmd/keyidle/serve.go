package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyidle/internal/config"
	"github.com/verte-zerg/keyidle/internal/model"
	"github.com/verte-zerg/keyidle/internal/store"
	"github.com/verte-zerg/keyidle/internal/transport/ws"
)

const (
	defaultServeAddr        = "127.0.0.1:8787"
	defaultActionsPerSecond = ws.DefaultActionsPerSecond
	defaultActionBurst      = ws.DefaultBurst
)

var (
	serveAddr             string
	serveActionsPerSecond float64
	serveBurst            int
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over websockets",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	addGameFlags(cmd)
	cmd.Flags().StringVar(&serveAddr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().Float64Var(&serveActionsPerSecond, "actions-per-second", defaultActionsPerSecond, "inbound actions per connection per second")
	cmd.Flags().IntVar(&serveBurst, "burst", defaultActionBurst, "inbound action burst per connection")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	gameCfg, err := resolveGameConfig(cmd, fileCfg)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyFloatConfig(cmd, "actions-per-second", &serveActionsPerSecond, fileCfg.Server.ActionsPerSecond)
	applyIntConfig(cmd, "burst", &serveBurst, fileCfg.Server.Burst)
	serverCfg := model.ServerConfig{
		Addr:             serveAddr,
		ActionsPerSecond: serveActionsPerSecond,
		Burst:            serveBurst,
	}
	if err := validateServerConfig(serverCfg); err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := openGame(ctx, gameCfg, st)
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "keyidle: ", log.LstdFlags)
	hub := ws.NewHub(r, gameCfg.TickRate, logger)
	srv := ws.NewServer(hub, serverCfg, logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", srv.Handler())
	httpSrv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	hubErr := make(chan error, 1)
	go func() {
		hubErr <- hub.Run(ctx)
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Printf("serving slot %q on ws://%s/ws", r.Slot(), serverCfg.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		<-hubErr
		return fmt.Errorf("failed to serve: %w", err)
	}
	if err := <-hubErr; err != nil {
		return fmt.Errorf("failed to save on shutdown: %w", err)
	}
	return nil
}

func validateServerConfig(cfg model.ServerConfig) error {
	if cfg.Addr == "" {
		return fmt.Errorf("--addr must not be empty")
	}
	if cfg.ActionsPerSecond <= 0 {
		return fmt.Errorf("--actions-per-second must be > 0")
	}
	if cfg.Burst <= 0 {
		return fmt.Errorf("--burst must be > 0")
	}
	return nil
}
