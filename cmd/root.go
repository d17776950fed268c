package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "magicpin",
		Short:         "magicpin: mail snippets, classroom assignments and chat from the terminal",
		Long:          "magicpin watches your Gmail inbox for fresh subjects, aggregates Google Classroom coursework, and routes chat through a model proxy, with per-account conversation history.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSwitchCmd(app),
		newChatCmd(app),
		newAssignmentsCmd(app),
		newPollCmd(app),
		newAgentCmd(app),
		newProxyCmd(app),
	)

	return rootCmd
}
