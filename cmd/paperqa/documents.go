package main

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"paperqa/internal/indexer"
	"paperqa/internal/service"
)

const defaultIngestWorkers = 4

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a paper or a directory of papers",
	Long: `Ingests a PDF or text file into its own collection, replacing any earlier
version. A directory is scanned recursively and every supported file is ingested
under an id derived from its file name.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document and its question history",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var (
	ingestID      string
	ingestWorkers int
)

func init() {
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "Document id (single file only; defaults to the file name)")
	ingestCmd.Flags().IntVarP(&ingestWorkers, "workers", "w", defaultIngestWorkers, "Files ingested concurrently")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() && ingestID != "" {
		return errors.New("--id cannot be used with a directory")
	}

	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.CheckEmbeddings(ctx); err != nil {
		return err
	}

	files := []string{path}
	if info.IsDir() {
		if files, err = indexer.ScanDir(ctx, path); err != nil {
			return err
		}
		if len(files) == 0 {
			cmd.Printf("No supported documents found in %s\n", path)
			return nil
		}
	}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(ingestWorkers, 1))
	for _, file := range files {
		id := ingestID
		if id == "" {
			id = documentIDFromPath(file)
		}
		g.Go(func() error {
			result, err := a.Manager.Ingest(gctx, file, id)
			if err != nil {
				failed.Add(1)
				cmd.PrintErrf("  %s: %v\n", file, err)
				return nil
			}
			cmd.Printf("  %s -> %s (%d chunks, %d pages)\n", file, result.DocumentID, result.Chunks, result.Pages)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	n := int(failed.Load())
	cmd.Printf("\nIngested %d of %d documents\n", len(files)-n, len(files))
	if n > 0 {
		return fmt.Errorf("%d documents failed to ingest", n)
	}
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ids := a.Documents.List(ctx)
	if len(ids) == 0 {
		cmd.Println("No documents ingested")
		return nil
	}

	for _, id := range ids {
		rec, err := a.Documents.Get(ctx, id)
		if err != nil || rec == nil {
			cmd.Printf("  %s\n", id)
			continue
		}
		cmd.Printf("  %s\n", id)
		cmd.Printf("    Source:    %s\n", rec.Source)
		cmd.Printf("    Chunks:    %d\n", rec.ChunkCount)
		cmd.Printf("    Processed: %s\n", rec.ProcessedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("\nTotal: %d documents\n", len(ids))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	documentID := args[0]
	if err := a.Documents.Delete(ctx, documentID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fmt.Errorf("document %s not found", documentID)
		}
		return err
	}
	cmd.Printf("Document %s deleted\n", documentID)
	return nil
}
