package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"paperqa/internal/app"
	"paperqa/internal/config"
	"paperqa/internal/contextutil"
)

var rootCmd = &cobra.Command{
	Use:           "paperqa",
	Short:         "Ask questions about academic papers",
	Long:          `Ingest PDF and text papers into per-document collections and answer questions about them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the process logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.SetDefault(app.NewLogger(cfg))
	return cfg, nil
}

// openApp builds the application for a single command invocation.
func openApp(cmd *cobra.Command) (context.Context, *app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	ctx := contextutil.WithLogger(cmd.Context(), slog.Default())

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ctx, a, nil
}

var invalidIDChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// documentIDFromPath derives a document id from a file name:
// "My Paper (v2).pdf" becomes "My_Paper_v2_".
func documentIDFromPath(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	id := invalidIDChars.ReplaceAllString(stem, "_")
	id = strings.TrimLeft(id, "_.-")
	if len(id) > 128 {
		id = id[:128]
	}
	return id
}
