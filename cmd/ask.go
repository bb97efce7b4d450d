package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/concertbot/concertbot/internal/answer"
	"github.com/concertbot/concertbot/internal/history"
	"github.com/concertbot/concertbot/internal/summary"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a concert-related question",
	Long: `Answers a question from the locally indexed documents, falling back
to live web search when the index has nothing relevant.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("summarize", false, "also print a short digest of the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]
	summarize, _ := cmd.Flags().GetBool("summarize")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	asst, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	defer asst.close()

	ans, err := asst.engine.Answer(ctx, question)
	if err != nil {
		_ = asst.history.Log(ctx, history.Entry{
			Kind: history.KindAnswer, Subject: question, Outcome: "error", Detail: err.Error(),
		})
		return err
	}

	_ = asst.history.Log(ctx, history.Entry{
		Kind:    history.KindAnswer,
		Subject: question,
		Outcome: string(ans.Provenance),
		Detail:  ans.Text,
	})

	fmt.Println(ans.Text)
	switch ans.Provenance {
	case answer.ProvenanceEscalated:
		fmt.Println("\n(answered from online search)")
	case answer.ProvenanceRejected:
		return nil
	}

	if summarize && ans.Provenance != answer.ProvenanceRejected {
		out, err := asst.summarizer.Summarize(ctx, ans.Text)
		if err == nil && out.Kind == summary.KindSummary {
			fmt.Printf("\nSummary: %s\n", out.Summary)
		}
	}

	return nil
}
