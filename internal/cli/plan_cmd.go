package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mbelozerov/caseline/internal/cli/formatter"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Browse a project's test plans",
	}
	cmd.AddCommand(newPlanListCmd(app), newPlanUseCmd(app))
	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the project's test plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := resolveProject(app, project)
			if err != nil {
				return err
			}

			stop := formatter.StartSpinner("Fetching plans...")
			plans, err := app.Suites.Plans(cmd.Context(), proj)
			stop()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(plans))
			for _, p := range plans {
				rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Name"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project name (defaults to the selection)")
	return cmd
}

func newPlanUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <plan-id>",
		Short: "Select the plan for subsequent commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid plan id %q", args[0])
			}
			app.Session.SelectPlan(id)
			if err := app.Session.Persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Using plan %d\n", id)
			return nil
		},
	}
}

// targetFlags registers the --project/--plan pair shared by the commands that
// address a remote plan.
func targetFlags(fs *pflag.FlagSet, project *string, planID *int64) {
	fs.StringVar(project, "project", "", "project name (defaults to the selection)")
	fs.Int64Var(planID, "plan", 0, "plan id (defaults to the selection)")
}

// resolveProject returns the explicit project or the session selection.
func resolveProject(app *App, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	project, _, _ := app.Session.Selection()
	if project == "" {
		return "", fmt.Errorf("no project selected, run \"caseline project use\" or pass --project")
	}
	return project, nil
}

// resolveTarget returns the project and plan, from flags or the selection.
func resolveTarget(app *App, projectFlag string, planFlag int64) (string, int64, error) {
	project, err := resolveProject(app, projectFlag)
	if err != nil {
		return "", 0, err
	}
	planID := planFlag
	if planID == 0 {
		_, planID, _ = app.Session.Selection()
	}
	if planID == 0 {
		return "", 0, fmt.Errorf("no plan selected, run \"caseline plan use\" or pass --plan")
	}
	return project, planID, nil
}
