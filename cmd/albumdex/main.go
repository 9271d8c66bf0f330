package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"albumdex/internal/app"
	"albumdex/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// The command path (e.g. "albums add") identifies the run in the log.
func newApp(cmd *cobra.Command) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := app.LoadConfig(defaults)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var opts app.Options
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts.StderrLevel = slog.LevelDebug
	}

	a, err := app.NewApp(cmd.Context(), cfg, commandName(cmd), opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// withApp runs fn against a fresh App and records its outcome on the
// operation before closing.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) (err error) {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		a.Operation().Fail(err)
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(cmd.Context(), a)
}

func commandName(cmd *cobra.Command) string {
	return strings.TrimPrefix(cmd.CommandPath(), rootCmd.Name()+" ")
}

var rootCmd = &cobra.Command{
	Use:   "albumdex",
	Short: "Soccer sticker album catalog",
	Long: "Browse and manage a catalog of soccer sticker albums, players and teams.\n" +
		"Anyone can browse; logging in unlocks editing.",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if store, _ := cmd.Flags().GetString("store"); store != "" {
			cfg.Store.Type = store
			if store == "sqlite" {
				cfg.Store.SQLitePath = filepath.Join(defaults["base_dir"], "albumdex.db")
				cfg.Auth.Type = "database"
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Printf("Store:    %s\n", cfg.Store.Type)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := app.LoadConfig(defaults)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		source := defaults["config_path"]
		if _, err := os.Stat(source); err != nil {
			source = "built-in defaults"
		}
		fmt.Printf("Configuration from %s:\n\n", source)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Session:    %s\n", cfg.SessionPath)
		fmt.Printf("Collation:  %s\n", cfg.CollationTag())
		fmt.Printf("Store:      %s\n", orDefault(cfg.Store.Type, "memory"))
		fmt.Printf("Auth:       %s\n", orDefault(cfg.Auth.Type, "static"))
		fmt.Printf("Vault:      %s\n", orDefault(cfg.Vault.Type, "none"))
		fmt.Printf("Encryption: %s\n", orDefault(cfg.Encryption.Type, "none"))
		return nil
	},
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Copy debug logs to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().String("store", "", "Store type: memory, sqlite or sqlite-memory")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(browseCmd)
	registerAuthCommands()
	registerAlbumCommands()
	registerPlayerCommands()
	registerTeamCommands()
	registerVaultCommands()
}
