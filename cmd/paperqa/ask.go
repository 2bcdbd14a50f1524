package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"paperqa/internal/rag"
)

const defaultHistoryLimit = 20

var askCmd = &cobra.Command{
	Use:   "ask [document-id] [question]",
	Short: "Ask a question about a document",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAsk,
}

var historyCmd = &cobra.Command{
	Use:   "history [document-id]",
	Short: "Show past questions about a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var loadModelCmd = &cobra.Command{
	Use:   "load-model",
	Short: "Load the local generation model",
	Long:  `Asks the local model server to load the configured model and leaves it loaded.`,
	Args:  cobra.NoArgs,
	RunE:  runLoadModel,
}

var (
	askExtractive bool
	askTopK       int
	historyLimit  int
)

func init() {
	askCmd.Flags().BoolVar(&askExtractive, "extractive", false, "Answer from the retrieved text without a generation model")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "Number of chunks to use (0 uses the configured default)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", defaultHistoryLimit, "Maximum number of interactions to show")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(loadModelCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	defer func() { _ = a.ReleaseModel(ctx) }()

	resp, err := a.QA.Ask(ctx, rag.AskRequest{
		DocumentID: args[0],
		Question:   strings.Join(args[1:], " "),
		TopK:       askTopK,
		Extractive: askExtractive,
	})
	if err != nil {
		return err
	}

	cmd.Println(resp.Answer)
	if len(resp.Sources) > 0 {
		cmd.Println("\nSources:")
		for i, src := range resp.Sources {
			cmd.Printf("  [%d] %s (score %.2f)\n", i+1, src.Metadata, src.RelevanceScore)
			cmd.Printf("      %s\n", src.Text)
		}
	}
	if resp.ProcessingInfo != nil {
		cmd.Printf("\nModel: %s, chunks used: %d\n", resp.ProcessingInfo.ModelUsed, resp.ProcessingInfo.ChunksUsed)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	records, err := a.QA.History(ctx, args[0], historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Printf("No questions recorded for %s\n", args[0])
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%s  [%s, %d chunks]\n", rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.ModelUsed, rec.ChunksUsed)
		cmd.Printf("  Q: %s\n", rec.Question)
		cmd.Printf("  A: %s\n\n", rec.Answer)
	}
	return nil
}

func runLoadModel(cmd *cobra.Command, _ []string) error {
	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	status, err := a.Models.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}
	cmd.Printf("Model %s loaded: %t\n", status.Model, status.Loaded)
	return nil
}
