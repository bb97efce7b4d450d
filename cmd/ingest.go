package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/concertbot/concertbot/internal/history"
	"github.com/concertbot/concertbot/internal/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files or globs...]",
	Short: "Filter, summarize, and index text documents",
	Long: `Reads the given text files (glob patterns like 'docs/**/*.txt' are
expanded), keeps only concert-related content, and indexes a summary of each
kept document in the local vector store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

type fileOutcome struct {
	name    string
	outcome string
	detail  string
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := expandArgs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matched")
	}

	asst, err := buildAssistant(cfg)
	if err != nil {
		return err
	}
	defer asst.close()

	bar := progressbar.Default(int64(len(files)), "ingesting")
	var outcomes []fileOutcome

	for _, path := range files {
		outcomes = append(outcomes, ingestOne(ctx, asst, path))
		bar.Add(1)
	}

	fmt.Println()
	indexed := 0
	for _, o := range outcomes {
		fmt.Printf("  %-40s %s\n", o.name, o.outcome)
		if verbose && o.detail != "" {
			fmt.Printf("      %s\n", strings.ReplaceAll(o.detail, "\n", " "))
		}
		if strings.HasPrefix(o.outcome, "indexed") {
			indexed++
		}
	}
	fmt.Printf("\n%d of %d document(s) indexed.\n", indexed, len(outcomes))
	return nil
}

func ingestOne(ctx context.Context, asst *assistant, path string) fileOutcome {
	content, err := os.ReadFile(path)
	if err != nil {
		return fileOutcome{name: path, outcome: "error", detail: err.Error()}
	}

	result, err := asst.pipeline.Ingest(ctx, ingest.Document{
		Content:    string(content),
		Source:     path,
		ReceivedAt: time.Now(),
	})

	entry := history.Entry{Kind: history.KindIngest, Subject: path}
	if err != nil {
		entry.Outcome = "error"
		entry.Detail = err.Error()
		_ = asst.history.Log(ctx, entry)
		return fileOutcome{name: path, outcome: "error", detail: err.Error()}
	}

	entry.Outcome = result.Outcome.String()
	entry.Detail = result.IndexedText
	_ = asst.history.Log(ctx, entry)

	return fileOutcome{name: path, outcome: result.Outcome.String(), detail: result.IndexedText}
}

// expandArgs resolves glob patterns and plain paths into a file list.
func expandArgs(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[{") {
			matches, err := doublestar.FilepathGlob(arg)
			if err != nil {
				return nil, fmt.Errorf("bad glob pattern %q: %w", arg, err)
			}
			for _, m := range matches {
				if !seen[m] {
					seen[m] = true
					files = append(files, m)
				}
			}
			continue
		}
		if !seen[arg] {
			seen[arg] = true
			files = append(files, arg)
		}
	}

	return files, nil
}
