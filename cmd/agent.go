package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	agentserver "github.com/bnema/magicpin/internal/adapters/agent"
	"github.com/bnema/magicpin/internal/application"
	"github.com/spf13/cobra"
)

func newAgentCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Run the background agent: message endpoint plus periodic inbox polling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAgent(cmd, app)
		},
	}
}

func runAgent(cmd *cobra.Command, app *app) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// New-subject notifications feed an insight request back into the chat
	// transcript of the active account.
	app.poller.Subscribe(application.NewInsightListener(app.model, app.transcriptSvc, app.log))

	server := &http.Server{
		Addr:    app.cfg.GetString("agent.listen"),
		Handler: agentserver.NewServer(app.router, app.aggregator, app.poller, app.log),
	}

	errCh := make(chan error, 1)
	go func() {
		app.log.WithField("addr", server.Addr).Info("agent listening")
		errCh <- server.ListenAndServe()
	}()

	interval := app.cfg.GetDuration("poll.interval")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	app.poller.Poll(ctx)

	for {
		select {
		case <-ticker.C:
			app.poller.Poll(ctx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("agent server: %w", err)
		case <-ctx.Done():
			app.log.Info("agent shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown agent server: %w", err)
			}
			return nil
		}
	}
}
