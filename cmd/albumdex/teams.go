package main

import (
	"context"
	"fmt"

	"albumdex/internal/app"
	"albumdex/internal/catalog"
	"albumdex/internal/render"

	"github.com/spf13/cobra"
)

// teams command
var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Browse and manage teams",
}

var teamsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := catalog.TeamQuery{}
		q.Search, _ = cmd.Flags().GetString("search")
		q.Country, _ = cmd.Flags().GetString("country")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			all, err := a.Service().ListTeams(ctx, catalog.TeamQuery{})
			if err != nil {
				return err
			}
			teams, err := a.Service().ListTeams(ctx, q)
			if err != nil {
				return err
			}
			if len(teams) == 0 {
				fmt.Println("No teams found.")
				return nil
			}
			fmt.Println(render.TeamTable(teams))
			fmt.Println(render.Count(len(teams), len(all), "team"))
			return nil
		})
	},
}

var teamsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			t, err := a.Service().GetTeam(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(render.TeamDetail(*t))
			return nil
		})
	},
}

var teamsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a team",
	RunE: func(cmd *cobra.Command, args []string) error {
		var form catalog.TeamForm
		applyTeamFlags(cmd.Flags(), &form)
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			t, err := a.Service().CreateTeam(ctx, form)
			if err != nil {
				return err
			}
			fmt.Printf("Added team %s (%s)\n", t.Name, t.ID)
			return nil
		})
	},
}

var teamsEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			existing, err := a.Service().GetTeam(ctx, args[0])
			if err != nil {
				return err
			}
			form := catalog.TeamFormFrom(*existing)
			applyTeamFlags(cmd.Flags(), &form)
			t, err := a.Service().UpdateTeam(ctx, args[0], form)
			if err != nil {
				return err
			}
			fmt.Printf("Updated team %s\n", t.Name)
			return nil
		})
	},
}

var teamsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Service().DeleteTeam(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted team %s\n", args[0])
			return nil
		})
	},
}

var teamsAlbumsCmd = &cobra.Command{
	Use:   "albums ID",
	Short: "List the albums a team appears in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			albums, err := a.Service().TeamAlbums(ctx, args[0])
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

func registerTeamCommands() {
	teamsCmd.AddCommand(teamsListCmd)
	teamsListCmd.Flags().StringP("search", "s", "", "Match team name")
	teamsListCmd.Flags().String("country", catalog.AllFilter, "Filter by country")

	teamsCmd.AddCommand(teamsShowCmd)
	teamsCmd.AddCommand(teamsAddCmd)
	addTeamFlags(teamsAddCmd.Flags())
	teamsCmd.AddCommand(teamsEditCmd)
	addTeamFlags(teamsEditCmd.Flags())
	teamsCmd.AddCommand(teamsDeleteCmd)
	teamsCmd.AddCommand(teamsAlbumsCmd)

	rootCmd.AddCommand(teamsCmd)
}
