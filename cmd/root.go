package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "concertbot",
	Short: "Retrieval-augmented assistant for concert and tour information",
	Long: `Concertbot ingests text documents, filters them for concert-related
content, indexes what it keeps in a local vector store, and answers
questions from that index, falling back to live web search when local
knowledge is not enough.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Credentials commonly live in a .env file next to the config.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".concertbot.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
