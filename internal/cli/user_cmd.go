package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mbelozerov/caseline/internal/cli/formatter"
	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/service"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administer local accounts",
	}
	cmd.AddCommand(
		newUserSetRoleCmd(app),
		newUserPushDirectCmd(app),
	)
	return cmd
}

func newUserSetRoleCmd(app *App) *cobra.Command {
	var orgFlag string

	cmd := &cobra.Command{
		Use:   "set-role <username> <role>",
		Short: "Change another account's role (admins only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := requireUser(ctx, app)
			if err != nil {
				return err
			}

			role := domain.Role(args[1])
			if !domain.ValidRoles[args[1]] {
				return fmt.Errorf("unknown role %q", args[1])
			}

			target, err := app.Auth.FindUser(ctx, args[0], orgFlag)
			if err != nil {
				return err
			}

			updated, err := app.Auth.UpdateUser(ctx, actor, target.ID, service.UserPatch{Role: &role})
			if err != nil {
				return err
			}
			fmt.Printf("%s is now a %s\n", updated.Username, formatter.StyleGreen.Render(string(updated.Role)))
			return nil
		},
	}

	cmd.Flags().StringVar(&orgFlag, "org", "", "organization URL, for usernames registered in several organizations")
	return cmd
}

func newUserPushDirectCmd(app *App) *cobra.Command {
	var orgFlag string

	cmd := &cobra.Command{
		Use:   "push-direct <username> <true|false>",
		Short: "Grant or revoke publishing without review (admins only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := requireUser(ctx, app)
			if err != nil {
				return err
			}

			allowed, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", args[1])
			}

			target, err := app.Auth.FindUser(ctx, args[0], orgFlag)
			if err != nil {
				return err
			}

			updated, err := app.Auth.UpdateUser(ctx, actor, target.ID, service.UserPatch{CanPushDirect: &allowed})
			if err != nil {
				return err
			}
			if updated.CanPushDirect {
				fmt.Printf("%s may now publish without review\n", updated.Username)
			} else {
				fmt.Printf("%s now needs a review to publish\n", updated.Username)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&orgFlag, "org", "", "organization URL, for usernames registered in several organizations")
	return cmd
}
