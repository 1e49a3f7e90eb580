package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/travel-assistant/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize travel-assistant configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick an LLM provider, port and storage location, and writes the answers to the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (provider %s, model %s).\n", cfgFile, cfg.Provider, cfg.Model)
		if env := config.APIKeyEnvVar(cfg.Provider); env != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s in the environment or .env.local before starting the server.\n", env)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
