package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/spf13/cobra"
)

func newSwitchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch",
		Short: "Switch the active Google account via browser authorization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSwitch(cmd, app)
		},
	}
}

func runSwitch(cmd *cobra.Command, app *app) error {
	var account domain.AccountID
	var restored []domain.Turn

	err := runSwitchSpinner(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) error {
		var switchErr error
		account, restored, switchErr = app.switcher.Switch(ctx)
		return switchErr
	})
	if err != nil {
		return fmt.Errorf("switch account: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", account)
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %d transcript turn(s)\n", len(restored))

	return nil
}
