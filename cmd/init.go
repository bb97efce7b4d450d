package cmd

import (
	"github.com/spf13/cobra"

	"github.com/concertbot/concertbot/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize concertbot configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure concertbot and generates a .concertbot.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
