package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"albumdex/internal/app"
	"albumdex/internal/auth"
	"albumdex/internal/model"
	"albumdex/internal/render"

	"github.com/spf13/cobra"
)

// login command
var loginCmd = &cobra.Command{
	Use:   "login [USERNAME]",
	Short: "Log in to enable editing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			username := ""
			if len(args) > 0 {
				username = args[0]
			} else {
				var err error
				if username, err = readLine("Username: "); err != nil {
					return err
				}
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			ok, err := a.Auth().Login(ctx, username, password)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("invalid username or password")
			}
			fmt.Printf("Logged in as %s\n", username)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Auth().Logout(ctx); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			id, ok := a.Session().Identity()
			if !ok {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Println(id.Username)
			if id.Role != model.RoleNone {
				fmt.Printf("Role: %s\n", id.Role)
			}
			if _, exp := a.Session().Token(); !exp.IsZero() {
				fmt.Printf("Session expires: %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			perms := auth.Permissions(id.Role)
			names := make([]string, len(perms))
			for i, p := range perms {
				names[i] = string(p)
			}
			fmt.Printf("Permissions: %s\n", strings.Join(names, ", "))
			return nil
		})
	},
}

// users command
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List usernames",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			names, err := a.Auth().ListUsers(ctx)
			if err != nil {
				return err
			}
			id, _ := a.Session().Identity()
			fmt.Println(render.Users(names, id.Username))
			return nil
		})
	},
}

var usersAddCmd = &cobra.Command{
	Use:   "add USERNAME",
	Short: "Add a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			password, err := readNewPassword("Password for " + args[0] + ": ")
			if err != nil {
				return err
			}
			res, err := a.Auth().AddUser(ctx, model.Credential{
				Username: args[0],
				Password: password,
				Role:     model.Role(role),
			})
			if err != nil {
				return err
			}
			if !res.Success {
				return errors.New(res.Message)
			}
			fmt.Println(res.Message)
			return nil
		})
	},
}

var usersRoleCmd = &cobra.Command{
	Use:   "role USERNAME ROLE",
	Short: "Change a user's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Auth().SetUserRole(ctx, args[0], model.Role(args[1])); err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", args[0], args[1])
			return nil
		})
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete USERNAME",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Auth().DeleteUser(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

func registerAuthCommands() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersAddCmd.Flags().String("role", "", "Role for the new user (database auth only)")
	usersCmd.AddCommand(usersRoleCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(usersCmd)
}
