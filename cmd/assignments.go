package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/magicpin/internal/adapters/render/summary"
	"github.com/bnema/magicpin/internal/domain"
	"github.com/spf13/cobra"
)

func newAssignmentsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assignments",
		Short: "Fetch and summarize Google Classroom coursework",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := app.aggregator.Aggregate(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrNoAuth) {
					return errors.New("no authentication token found, run 'magicpin switch' first")
				}
				return fmt.Errorf("fetch assignments: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), summary.Format(records))
			return err
		},
	}
}
