// Package app is the main entrypoint into the application, responsible for
// configuring and starting the application, wiring services together, and
// shutting down cleanly.
package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"

	"fragboard/internal/discord"
	"fragboard/internal/logging"
	"fragboard/internal/panel"
	"fragboard/internal/stats"
	"fragboard/internal/version"
)

func Start(stdout, stderr io.Writer, args []string) error {
	cfg, err := parse(stderr, args)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Version {
		fmt.Fprintln(stdout, "fragboard", version.Version)
		return nil
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logging.NewLogger(cfg.loggingOptions)

	// Open the statistics projections.
	store, err := stats.Open(stats.StoreOptions{Path: cfg.Database, Logger: logger})
	if err != nil {
		return err
	}
	defer store.Close()

	// Load the persisted panel state so a restart relocates the existing
	// surface messages instead of creating duplicates.
	state, err := panel.LoadState(filepath.Join(cfg.DataDir, "panel.yaml"))
	if err != nil {
		return err
	}

	client, err := discord.New(discord.Options{
		Token:     cfg.Token,
		ChannelID: cfg.ChannelID,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	if err := client.Open(); err != nil {
		return err
	}
	defer client.Close()

	toolbarID, contentID := state.Surfaces()
	toolbarID, contentID, err = client.EnsureSurfaces(ctx, toolbarID, contentID)
	if err != nil {
		return fmt.Errorf("establishing panel surfaces: %w", err)
	}
	if err := state.SetSurfaces(toolbarID, contentID); err != nil {
		return err
	}

	svc := panel.NewService(panel.ServiceOptions{
		State:  state,
		Stats:  store,
		Editor: client,
		Logger: logger,
	})
	client.RegisterHandlers(svc.HandleButton, svc.HandleSelect)

	// Initial render of the default view on both surfaces.
	if err := svc.ForceHome(ctx); err != nil {
		return fmt.Errorf("rendering initial view: %w", err)
	}

	supervisor := panel.NewSupervisor(panel.SupervisorOptions{
		Idle:   cfg.IdleTimeout,
		OnIdle: svc.ForceHome,
		Logger: logger,
	})

	// Relay panel transitions to the supervisor: every user-initiated
	// transition restarts the idle timer. Forced transitions (startup, the
	// idle reset itself) are not activity.
	transitions := svc.Broker.Subscribe(ctx)
	go func() {
		for ev := range transitions {
			if !ev.Payload.Forced {
				supervisor.Reset()
			}
		}
	}()

	supervisor.Install()
	defer supervisor.Stop()

	logger.Info("fragboard is up", "channel", cfg.ChannelID, "idle_timeout", cfg.IdleTimeout)

	// Blocks until interrupted.
	<-ctx.Done()
	return nil
}
