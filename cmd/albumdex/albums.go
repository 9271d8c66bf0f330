package main

import (
	"context"
	"fmt"
	"os"

	"albumdex/internal/app"
	"albumdex/internal/catalog"
	"albumdex/internal/render"

	"github.com/spf13/cobra"
)

// albums command
var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "Browse and manage albums",
}

var albumsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List albums",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := catalog.AlbumQuery{}
		q.Search, _ = cmd.Flags().GetString("search")
		q.Type, _ = cmd.Flags().GetString("type")
		q.Country, _ = cmd.Flags().GetString("country")
		q.Publisher, _ = cmd.Flags().GetString("publisher")
		sortKey, _ := cmd.Flags().GetString("sort")
		sort, err := catalog.ParseAlbumSort(sortKey)
		if err != nil {
			return err
		}
		q.Sort = sort

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			all, err := a.Service().ListAlbums(ctx, catalog.AlbumQuery{})
			if err != nil {
				return err
			}
			albums, err := a.Service().ListAlbums(ctx, q)
			if err != nil {
				return err
			}
			if len(albums) == 0 {
				fmt.Println("No albums found.")
				return nil
			}
			fmt.Println(render.AlbumTable(albums))
			fmt.Println(render.Count(len(albums), len(all), "album"))
			return nil
		})
	},
}

var albumsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show an album",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			album, err := a.Service().GetAlbum(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(render.AlbumDetail(*album))
			return nil
		})
	},
}

var albumsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an album",
	RunE: func(cmd *cobra.Command, args []string) error {
		var form catalog.AlbumForm
		applyAlbumFlags(cmd.Flags(), &form)
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			album, err := a.Service().CreateAlbum(ctx, form)
			if err != nil {
				return err
			}
			fmt.Printf("Added album %s (%s)\n", album.Title, album.ID)
			return nil
		})
	},
}

var albumsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit an album",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			existing, err := a.Service().GetAlbum(ctx, args[0])
			if err != nil {
				return err
			}
			form := catalog.AlbumFormFrom(*existing)
			applyAlbumFlags(cmd.Flags(), &form)
			album, err := a.Service().UpdateAlbum(ctx, args[0], form)
			if err != nil {
				return err
			}
			fmt.Printf("Updated album %s\n", album.Title)
			return nil
		})
	},
}

var albumsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an album",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Service().DeleteAlbum(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted album %s\n", args[0])
			return nil
		})
	},
}

// albums scan subcommands
var albumsScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Manage album PDF scans",
}

var albumsScanUploadCmd = &cobra.Command{
	Use:   "upload ID FILE",
	Short: "Upload a PDF scan of an album",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening scan: %w", err)
			}
			defer f.Close()

			sum, err := a.Service().UploadScan(ctx, args[0], f)
			if err != nil {
				return err
			}
			fmt.Printf("Stored scan %s\n", sum[:12])
			return nil
		})
	},
}

var albumsScanDownloadCmd = &cobra.Command{
	Use:   "download ID FILE",
	Short: "Download an album's PDF scan",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			f, err := os.OpenFile(args[1], os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			if err := a.Service().DownloadScan(ctx, args[0], f); err != nil {
				f.Close()
				os.Remove(args[1])
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing scan: %w", err)
			}
			fmt.Printf("Wrote %s\n", args[1])
			return nil
		})
	},
}

func registerAlbumCommands() {
	albumsCmd.AddCommand(albumsListCmd)
	albumsListCmd.Flags().StringP("search", "s", "", "Match title, publisher or year")
	albumsListCmd.Flags().String("type", catalog.AllFilter, "Filter by album type")
	albumsListCmd.Flags().String("country", catalog.AllFilter, "Filter by country")
	albumsListCmd.Flags().String("publisher", catalog.AllFilter, "Filter by publisher")
	albumsListCmd.Flags().String("sort", string(catalog.SortYearDesc), "year-desc, year-asc, title-asc or title-desc")

	albumsCmd.AddCommand(albumsShowCmd)
	albumsCmd.AddCommand(albumsAddCmd)
	addAlbumFlags(albumsAddCmd.Flags())
	albumsCmd.AddCommand(albumsEditCmd)
	addAlbumFlags(albumsEditCmd.Flags())
	albumsCmd.AddCommand(albumsDeleteCmd)

	albumsScanCmd.AddCommand(albumsScanUploadCmd)
	albumsScanCmd.AddCommand(albumsScanDownloadCmd)
	albumsCmd.AddCommand(albumsScanCmd)

	rootCmd.AddCommand(albumsCmd)
}
