package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/travel-assistant/internal/assistant"
	"github.com/ziadkadry99/travel-assistant/internal/progress"
)

var (
	replaySession string
	replayUser    string
	replayJSON    bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Replay a scripted conversation against the assistant",
	Long: `Reads one user message per line from the script file (use - for stdin)
and sends them in order within one session. Blank lines and lines starting
with # are skipped. Useful for exercising prompts and follow-up handling.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		messages, err := readScript(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			return fmt.Errorf("script %s contains no messages", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sessionID := replaySession
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		out := cmd.OutOrStdout()
		reporter := progress.NewReporter(cmd.ErrOrStderr(), "Replaying")
		reporter.Start(len(messages))

		var degraded int
		for i, msg := range messages {
			reporter.Update(i+1, msg)
			resp, err := a.chat(cmd.Context(), sessionID, replayUser, msg)
			if err != nil {
				reporter.Finish()
				return fmt.Errorf("turn %d: %w", i+1, err)
			}
			if resp.Message == assistant.ApologyMessage || resp.Message == assistant.UnhandledMessage {
				degraded++
			}
			if replayJSON {
				if err := writeIndentedJSON(out, resp); err != nil {
					reporter.Finish()
					return err
				}
				continue
			}
			fmt.Fprintf(out, "\n> %s\n", msg)
			if err := printResponse(out, resp, false); err != nil {
				reporter.Finish()
				return err
			}
		}
		reporter.Finish()

		a.logger.Info("replay complete",
			zap.String("session_id", sessionID),
			zap.Int("turns", len(messages)),
			zap.Int("degraded", degraded),
		)
		return nil
	},
}

// readScript returns the non-blank, non-comment lines of a script.
func readScript(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		r = f
	}

	var messages []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		messages = append(messages, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return messages, nil
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	replayCmd.Flags().StringVar(&replaySession, "session", "", "session ID to use (default: new session)")
	replayCmd.Flags().StringVar(&replayUser, "user", "", "user ID to record on the session")
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print each response as JSON")
	rootCmd.AddCommand(replayCmd)
}
