package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/magicpin/internal/adapters/proxy"
	"github.com/spf13/cobra"
)

func newProxyCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "proxy",
		Short: "Run the inference proxy in front of Vertex AI",
		Long:  "Runs the inference proxy: accepts generation requests and forwards them to Vertex AI using Application Default Credentials, so callers never handle the cloud token.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProxy(cmd, app)
		},
	}
}

func runProxy(cmd *cobra.Command, app *app) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens, err := proxy.NewADCTokenSource(ctx)
	if err != nil {
		return fmt.Errorf("wire proxy credentials: %w", err)
	}

	server := &http.Server{
		Addr:    app.cfg.GetString("proxy.listen"),
		Handler: proxy.NewServer(tokens, app.log),
	}

	errCh := make(chan error, 1)
	go func() {
		app.log.WithField("addr", server.Addr).Info("proxy listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("proxy server: %w", err)
	case <-ctx.Done():
		app.log.Info("proxy shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown proxy server: %w", err)
		}
		return nil
	}
}
