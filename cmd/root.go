package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/travel-assistant/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "travel-assistant",
	Short: "Conversational travel assistant backend",
	Long: `Travel Assistant answers free-text travel requests. Each message is
classified by an LLM, routed to flight, hotel or booking services, and
answered in natural language with suggested follow-up actions. Turns are
remembered per session so follow-ups can refer to earlier messages.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(".env.local", ".env")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
