package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete sessions and messages past the retention window",
	Long:  `Runs one housekeeping pass, removing conversation messages and sessions older than conversation.session_ttl_hours.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.newJanitor().RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d message(s) and %d session(s) older than %dh\n",
			res.MessagesDeleted, res.SessionsDeleted, a.cfg.Conversation.SessionTTLHours)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
