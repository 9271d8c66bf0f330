package main

import (
	"context"
	"fmt"

	"albumdex/internal/app"
	"albumdex/internal/catalog"
	"albumdex/internal/render"

	"github.com/spf13/cobra"
)

// players command
var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Browse and manage players",
}

var playersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List players",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := catalog.PlayerQuery{}
		q.Search, _ = cmd.Flags().GetString("search")
		q.Team, _ = cmd.Flags().GetString("team")
		q.Position, _ = cmd.Flags().GetString("position")
		q.Nationality, _ = cmd.Flags().GetString("nationality")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			all, err := a.Service().ListPlayers(ctx, catalog.PlayerQuery{})
			if err != nil {
				return err
			}
			players, err := a.Service().ListPlayers(ctx, q)
			if err != nil {
				return err
			}
			if len(players) == 0 {
				fmt.Println("No players found.")
				return nil
			}
			fmt.Println(render.PlayerTable(players))
			fmt.Println(render.Count(len(players), len(all), "player"))
			return nil
		})
	},
}

var playersShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p, err := a.Service().GetPlayer(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(render.PlayerDetail(*p, a.Service().PlayerAge(*p)))
			return nil
		})
	},
}

var playersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a player",
	RunE: func(cmd *cobra.Command, args []string) error {
		var form catalog.PlayerForm
		if err := applyPlayerFlags(cmd.Flags(), &form); err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p, err := a.Service().CreatePlayer(ctx, form)
			if err != nil {
				return err
			}
			fmt.Printf("Added player %s (%s), total skills %d\n", p.Name, p.ID, p.TotalSkills)
			return nil
		})
	},
}

var playersEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			existing, err := a.Service().GetPlayer(ctx, args[0])
			if err != nil {
				return err
			}
			form := catalog.PlayerFormFrom(*existing)
			if err := applyPlayerFlags(cmd.Flags(), &form); err != nil {
				return err
			}
			p, err := a.Service().UpdatePlayer(ctx, args[0], form)
			if err != nil {
				return err
			}
			fmt.Printf("Updated player %s, total skills %d\n", p.Name, p.TotalSkills)
			return nil
		})
	},
}

var playersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Service().DeletePlayer(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted player %s\n", args[0])
			return nil
		})
	},
}

var playersAlbumsCmd = &cobra.Command{
	Use:   "albums ID",
	Short: "List the albums a player appears in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			albums, err := a.Service().PlayerAlbums(ctx, args[0])
			if err != nil {
				return err
			}
			if len(albums) == 0 {
				fmt.Println("No albums found.")
				return nil
			}
			fmt.Println(render.AlbumTable(albums))
			return nil
		})
	},
}

func registerPlayerCommands() {
	playersCmd.AddCommand(playersListCmd)
	playersListCmd.Flags().StringP("search", "s", "", "Match player name")
	playersListCmd.Flags().String("team", catalog.AllFilter, "Filter by current team")
	playersListCmd.Flags().String("position", catalog.AllFilter, "Filter by position")
	playersListCmd.Flags().String("nationality", catalog.AllFilter, "Filter by nationality")

	playersCmd.AddCommand(playersShowCmd)
	playersCmd.AddCommand(playersAddCmd)
	addPlayerFlags(playersAddCmd.Flags())
	playersCmd.AddCommand(playersEditCmd)
	addPlayerFlags(playersEditCmd.Flags())
	playersCmd.AddCommand(playersDeleteCmd)
	playersCmd.AddCommand(playersAlbumsCmd)

	rootCmd.AddCommand(playersCmd)
}
