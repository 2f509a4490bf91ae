// Package main provides the CLI tool for the brochure-service. Cobra builds
// the command tree:
//
//	brochure-cli generate <brandID>
//	brochure-cli regenerate <brandID>
//	brochure-cli stat <brandID>
//	brochure-cli delete <brandID>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/franchisehub/brochure-service/internal/asset"
	"github.com/franchisehub/brochure-service/internal/brochure"
	"github.com/franchisehub/brochure-service/internal/config"
	"github.com/franchisehub/brochure-service/internal/service"
	"github.com/franchisehub/brochure-service/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brochure-cli",
		Short: "Brochure service CLI tools",
	}

	root.AddCommand(
		lifecycleCmd("generate", "Generate and store a brand's brochure"),
		lifecycleCmd("regenerate", "Regenerate a brand's brochure from its current profile"),
		lifecycleCmd("stat", "Show brochure existence and metadata for a brand"),
		lifecycleCmd("delete", "Delete a brand's brochure binary and metadata"),
	)
	return root
}

// lifecycleCmd builds one subcommand; they all share the same wiring and
// take a single brand ID argument.
func lifecycleCmd(verb, short string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <brandID>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(verb, args[0])
		},
	}
}

func runLifecycle(verb, brandID string) error {
	configPath := os.Getenv("BROCHURE_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI always logs in development mode.
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store, err := storage.NewFileStore(cfg.Storage.ObjectDir)
	if err != nil {
		return fmt.Errorf("creating object store: %w", err)
	}

	brands := storage.NewBrandRepository(db)
	loader := asset.NewLoader(cfg.Brochure.AssetTimeout(), logger)
	generator := brochure.NewGenerator(loader, logger)
	brochures := service.NewBrochureService(brands, store, generator, cfg.Brochure.PublicBaseURL, logger)

	// Ctrl+C cancels cleanly between asset fetches and before upload.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("cancelling...")
		cancel()
	}()

	switch verb {
	case "generate", "regenerate":
		artifact, err := brochures.Regenerate(ctx, brandID)
		if err != nil {
			return err
		}
		return printJSON(artifact)
	case "stat":
		stat, err := brochures.Stat(ctx, brandID)
		if err != nil {
			return err
		}
		return printJSON(stat)
	case "delete":
		if err := brochures.Delete(ctx, brandID); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	default:
		return fmt.Errorf("unknown command: %s", verb)
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
