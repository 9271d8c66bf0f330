package main

import (
	"context"
	"errors"
	"fmt"

	"albumdex/internal/app"
	"albumdex/internal/browse"
	"albumdex/internal/catalog"

	"github.com/spf13/cobra"
)

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export and import whole-catalog snapshots",
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Store the catalog in the vault as a new snapshot version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			info, err := a.Service().ExportSnapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Exported snapshot v%d to %s: %d albums, %d players, %d teams\n",
				info.Version, a.VaultName(), info.Albums, info.Players, info.Teams)
			return nil
		})
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the catalog with the latest snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			var dc catalog.DecryptionContext
			if enc := a.Encryptor(); enc != nil {
				passphrase, err := readPassword("Passphrase: ")
				if err != nil {
					return err
				}
				if dc, err = enc.Unlock(passphrase); err != nil {
					return err
				}
			}
			info, err := a.Service().ImportSnapshot(ctx, dc)
			if err != nil {
				return err
			}
			fmt.Printf("Imported snapshot v%d: %d albums, %d players, %d teams\n",
				info.Version, info.Albums, info.Players, info.Teams)
			return nil
		})
	},
}

var snapshotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest snapshot version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			version, err := a.Service().SnapshotVersion(ctx)
			if err != nil {
				return err
			}
			if version == 0 {
				fmt.Printf("No snapshot in %s.\n", a.VaultName())
				return nil
			}
			fmt.Printf("Latest snapshot in %s: v%d\n", a.VaultName(), version)
			return nil
		})
	},
}

// vault command
var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage the scan and snapshot vault",
}

var vaultCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the vault is reachable and writable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.CheckVault(ctx); err != nil {
				return err
			}
			fmt.Printf("Vault %s OK\n", a.VaultName())
			return nil
		})
	},
}

// encryption command
var encryptionCmd = &cobra.Command{
	Use:   "encryption",
	Short: "Manage snapshot encryption",
}

var encryptionSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Generate the snapshot key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			passphrase, err := readNewPassword("New passphrase: ")
			if err != nil {
				return err
			}
			if passphrase == "" {
				return errors.New("passphrase must not be empty")
			}
			if err := a.SetupEncryption(passphrase); err != nil {
				return err
			}
			fmt.Println("Encryption keys created. Keep the passphrase safe: snapshots cannot be imported without it.")
			return nil
		})
	},
}

// browse command
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the catalog interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return browse.Run(ctx, a.Service(), catalog.NewLister(a.Config().CollationTag()))
		})
	},
}

func registerVaultCommands() {
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotImportCmd)
	snapshotCmd.AddCommand(snapshotStatusCmd)
	vaultCmd.AddCommand(vaultCheckCmd)
	encryptionCmd.AddCommand(encryptionSetupCmd)

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(vaultCmd)
	rootCmd.AddCommand(encryptionCmd)
}
