package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/travel-assistant/internal/assistant"
)

var (
	chatSession string
	chatUser    string
	chatJSON    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send one message to the assistant",
	Long: `Runs a single conversational turn and prints the reply. Pass --session
to continue an earlier conversation; otherwise a new session is started.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sessionID := chatSession
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		resp, err := a.chat(cmd.Context(), sessionID, chatUser, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printResponse(cmd.OutOrStdout(), resp, chatJSON)
	},
}

// printResponse writes a turn either as indented JSON or as readable text.
func printResponse(w io.Writer, resp *assistant.Response, asJSON bool) error {
	if asJSON {
		return writeIndentedJSON(w, resp)
	}

	fmt.Fprintf(w, "%s\n", resp.Message)
	if resp.Intent != "" {
		fmt.Fprintf(w, "\n  intent:  %s\n", resp.Intent)
	}
	if keys := resp.Entities.Keys(); len(keys) > 0 {
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, resp.Entities[k].Text()))
		}
		fmt.Fprintf(w, "  entities: %s\n", strings.Join(parts, ", "))
	}
	if len(resp.Results) > 0 {
		fmt.Fprintf(w, "  results: %d\n", len(resp.Results))
	}
	for _, el := range resp.UIElements {
		fmt.Fprintf(w, "  [%s] %s\n", el.Type, el.Text)
	}
	fmt.Fprintf(w, "  session: %s\n", resp.SessionID)
	return nil
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session ID to continue (default: new session)")
	chatCmd.Flags().StringVar(&chatUser, "user", "", "user ID to record on the session")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "print the full response as JSON")
	rootCmd.AddCommand(chatCmd)
}
