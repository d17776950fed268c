package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message through the command router",
		Long:  "Sends a message through the command router: assignment keywords produce a coursework summary, anything else goes to the model with recent conversation context.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := app.router.Handle(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("handle message: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return err
		},
	}
}
