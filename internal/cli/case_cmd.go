package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbelozerov/caseline/internal/cli/formatter"
)

func newCaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Browse published test cases",
	}
	cmd.AddCommand(newCaseListCmd(app))
	return cmd
}

func newCaseListCmd(app *App) *cobra.Command {
	var project string
	var planID, suiteID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the test cases of a suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, plan, err := resolveTarget(app, project, planID)
			if err != nil {
				return err
			}

			suite := suiteID
			if suite == 0 {
				if _, _, sel := app.Session.Selection(); sel != nil {
					suite = *sel
				}
			}
			if suite == 0 {
				return fmt.Errorf("no suite selected, run \"caseline suite pick\" or pass --suite")
			}

			stop := formatter.StartSpinner("Fetching test cases...")
			cases, err := app.Suites.ListCases(cmd.Context(), proj, plan, suite)
			stop()
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatRemoteCases(cases))
			return nil
		},
	}

	targetFlags(cmd.Flags(), &project, &planID)
	cmd.Flags().Int64Var(&suiteID, "suite", 0, "suite id (defaults to the selection)")

	return cmd
}
