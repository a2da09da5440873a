package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mbelozerov/caseline/internal/cli/formatter"
	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/service"
)

func newRegisterCmd(app *App) *cobra.Command {
	var username, password, role, orgURL, pat string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a local account for an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && username == "" {
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().Title("Username").Value(&username),
						huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
						huh.NewSelect[string]().Title("Role").
							Options(
								huh.NewOption("Tester", string(domain.RoleTester)),
								huh.NewOption("Lead", string(domain.RoleLead)),
								huh.NewOption("Admin", string(domain.RoleAdmin)),
							).Value(&role),
						huh.NewInput().Title("Organization URL").
							Placeholder("https://dev.azure.com/acme").Value(&orgURL),
						huh.NewInput().Title("Personal access token").
							EchoMode(huh.EchoModePassword).Value(&pat),
					),
				).WithTheme(caselineHuhTheme())
				if err := form.Run(); err != nil {
					return err
				}
			}

			u, err := app.Auth.Register(cmd.Context(), service.Registration{
				Username:            username,
				Password:            password,
				Role:                domain.Role(role),
				OrgURL:              orgURL,
				PersonalAccessToken: pat,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s (%s) in %s\n", u.Username, u.Role, u.OrgURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleTester), "Tester, Lead or Admin")
	cmd.Flags().StringVar(&orgURL, "org", "", "organization URL")
	cmd.Flags().StringVar(&pat, "token", "", "personal access token for the test service")

	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var username, password, orgURL string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and make the account the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if app.interactive() && username == "" {
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().Title("Username").Value(&username),
						huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
					),
				).WithTheme(caselineHuhTheme())
				if err := form.Run(); err != nil {
					return err
				}
			}

			u, err := app.Auth.Login(ctx, username, password, orgURL)

			var multi *service.MultipleAccountsError
			if errors.As(err, &multi) {
				org, pickErr := pickOrganization(app, multi.Accounts)
				if pickErr != nil {
					return pickErr
				}
				u, err = app.Auth.Login(ctx, username, password, org)
			}
			if err != nil {
				return err
			}

			app.Session.SetUser(u)
			fmt.Printf("Logged in as %s (%s) at %s\n", u.Username, u.Role, u.OrgURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&orgURL, "org", "", "organization URL, when registered in several")

	return cmd
}

// pickOrganization resolves an ambiguous login. Interactively it offers a
// select; otherwise it lists the choices and asks for the --org flag.
func pickOrganization(app *App, accounts []*domain.User) (string, error) {
	if !app.interactive() {
		var orgs string
		for _, a := range accounts {
			orgs += "\n  " + a.OrgURL
		}
		return "", fmt.Errorf("username is registered in several organizations, pass --org with one of:%s", orgs)
	}

	options := make([]huh.Option[string], 0, len(accounts))
	for _, a := range accounts {
		options = append(options, huh.NewOption(a.OrgURL, a.OrgURL))
	}

	var org string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Organization").Options(options...).Value(&org),
		),
	).WithTheme(caselineHuhTheme())
	if err := form.Run(); err != nil {
		return "", err
	}
	return org, nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			app.Session.SetUser(nil)
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active account",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := requireUser(cmd.Context(), app)
			if err != nil {
				return err
			}
			fmt.Printf("%s  %s\n", u.Username, formatter.Dim(fmt.Sprintf("%s · %s", u.Role, u.OrgURL)))
			if u.CanPublishDirect() {
				fmt.Println(formatter.Dim("may publish without review"))
			}
			return nil
		},
	}
}

// requireUser returns the session user, falling back to the persisted active
// login.
func requireUser(ctx context.Context, app *App) (*domain.User, error) {
	if u := app.Session.User(); u != nil {
		return u, nil
	}
	u, err := app.Auth.ActiveUser(ctx)
	if err != nil {
		return nil, err
	}
	app.Session.SetUser(u)
	return u, nil
}
