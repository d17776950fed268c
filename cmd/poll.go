package cmd

import (
	"fmt"

	"github.com/bnema/magicpin/internal/adapters/render/summary"
	"github.com/spf13/cobra"
)

func newPollCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Run one inbox snapshot poll and print the stored subjects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app.poller.Poll(ctx)

			account, err := app.state.ActiveAccount(ctx)
			if err != nil {
				return fmt.Errorf("read active account: %w", err)
			}

			snapshot, err := app.state.Snapshot(ctx, account)
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), summary.Subjects(snapshot))
			return err
		},
	}
}
