package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbelozerov/caseline/internal/cli/formatter"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Browse remote projects",
	}
	cmd.AddCommand(newProjectListCmd(app), newProjectUseCmd(app))
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the organization's projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := formatter.StartSpinner("Fetching projects...")
			projects, err := app.Suites.Projects(cmd.Context())
			stop()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{p.Name, p.ID})
			}
			fmt.Print(formatter.RenderTable([]string{"Name", "ID"}, rows))
			return nil
		},
	}
}

func newProjectUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Select the project for subsequent commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.SelectProject(args[0])
			if err := app.Session.Persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Using project %s\n", args[0])
			return nil
		},
	}
}
