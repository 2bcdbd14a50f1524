package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"paperqa/internal/document"
	"paperqa/internal/indexer"
	"paperqa/internal/queue"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue [path]",
	Short: "Queue a paper for the ingestion worker",
	Long: `Copies the file into the upload directory and pushes an ingestion job onto
the Redis queue. The worker removes the copy once the job is processed.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnqueue,
}

var enqueueID string

func init() {
	enqueueCmd.Flags().StringVar(&enqueueID, "id", "", "Document id (defaults to the file name)")
	rootCmd.AddCommand(enqueueCmd)
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	path := args[0]
	if !indexer.IsSupported(path) {
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	id := enqueueID
	if id == "" {
		id = documentIDFromPath(path)
	}
	if err := document.ValidateID(id); err != nil {
		return err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = client.Close() }()

	q := queue.NewRedisQueue(client, cfg.QueueName)
	if err := q.Ping(ctx); err != nil {
		return err
	}

	staged, err := stageFile(path, cfg.UploadDir)
	if err != nil {
		return err
	}
	if err := q.Enqueue(ctx, queue.Job{DocumentID: id, FilePath: staged}); err != nil {
		_ = os.Remove(staged)
		return err
	}

	n, err := q.Len(ctx)
	if err != nil {
		n = -1
	}
	cmd.Printf("Queued %s as %s on %s (%d pending)\n", path, id, q.Name(), n)
	return nil
}

// stageFile copies src into dir under a unique name that keeps its extension.
func stageFile(src, dir string) (path string, err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if dir == "" {
		dir = os.TempDir()
	}
	out, err := os.CreateTemp(dir, "queued-*"+filepath.Ext(src))
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close staging file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(out.Name())
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return filepath.Abs(out.Name())
}
