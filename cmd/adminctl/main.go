// adminctl is the operator CLI for bootstrap and recovery tasks that must
// work without a logged-in admin session.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"projekthub/internal/config"
	"projekthub/internal/model"
)

var rootCmd = &cobra.Command{
	Use:           "adminctl",
	Short:         "Operator tooling for ProjektHub admin accounts",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "adminctl: %v\n", err)
		os.Exit(1)
	}
}

// openRepository loads the configuration and connects to the database.
func openRepository(ctx context.Context) (model.Repository, config.Config, error) {
	cfg, err := config.ParseConfig()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("load config: %w", err)
	}
	repo, err := model.InitRepository(&cfg)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("connect database: %w", err)
	}
	return repo, cfg, nil
}
