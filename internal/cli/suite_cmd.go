package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbelozerov/caseline/internal/cli/formatter"
	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/hierarchy"
)

func newSuiteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Browse and manage a plan's suite tree",
	}
	cmd.AddCommand(
		newSuiteTreeCmd(app),
		newSuitePickCmd(app),
		newSuiteCreateCmd(app),
	)
	return cmd
}

func newSuiteTreeCmd(app *App) *cobra.Command {
	var project string
	var planID int64
	var recursive bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the plan's suite hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, plan, err := resolveTarget(app, project, planID)
			if err != nil {
				return err
			}

			var root *domain.SuiteNode
			if recursive {
				root, err = fetchTreeWithProgress(cmd, app, proj, plan)
			} else {
				stop := formatter.StartSpinner("Fetching suites...")
				root, err = app.Suites.Tree(cmd.Context(), proj, plan)
				stop()
			}
			if err != nil {
				return err
			}

			_, _, selected := app.Session.Selection()
			fmt.Print(formatter.RenderSuiteTree(root, selected))
			fmt.Println(formatter.Dim(fmt.Sprintf("%d suite(s)", root.Count())))
			return nil
		},
	}

	targetFlags(cmd.Flags(), &project, &planID)
	cmd.Flags().BoolVar(&recursive, "recursive", false, "walk suites node by node instead of using the flat listing")

	return cmd
}

// fetchTreeWithProgress runs the recursive walk, feeding progress events into
// a spinner line while the fetch is in flight.
func fetchTreeWithProgress(cmd *cobra.Command, app *App, project string, planID int64) (*domain.SuiteNode, error) {
	events := make(chan hierarchy.ProgressEvent, 64)
	done := make(chan struct{})

	spinner := formatter.NewSpinner("Walking suite tree...")
	spinner.Start()
	go func() {
		defer close(done)
		for ev := range events {
			spinner.SetMessage(formatter.RenderFetchProgress(ev.Current, ev.Name))
		}
	}()

	root, err := app.Suites.TreeRecursive(cmd.Context(), project, planID, events)
	close(events)
	<-done
	spinner.Stop()

	return root, err
}

func newSuitePickCmd(app *App) *cobra.Command {
	var project string
	var planID int64

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Interactively choose the working suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("suite pick needs an interactive terminal")
			}
			proj, plan, err := resolveTarget(app, project, planID)
			if err != nil {
				return err
			}

			picked, err := runSuitePicker(app, proj, plan)
			if err != nil {
				return err
			}
			if picked == nil {
				fmt.Println(formatter.Dim("No suite selected."))
				return nil
			}

			app.Session.SelectSuite(picked.ID)
			if err := app.Session.Persist(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Using suite %s %s\n", picked.Name, formatter.Dim(fmt.Sprintf("#%d", picked.ID)))
			return nil
		},
	}

	targetFlags(cmd.Flags(), &project, &planID)

	return cmd
}

func newSuiteCreateCmd(app *App) *cobra.Command {
	var project, name string
	var planID int64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a suite under the plan's root",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, plan, err := resolveTarget(app, project, planID)
			if err != nil {
				return err
			}

			stop := formatter.StartSpinner("Creating suite...")
			rec, err := app.Suites.CreateSuite(cmd.Context(), proj, plan, name)
			stop()
			if err != nil {
				return err
			}

			fmt.Printf("Created suite %s %s\n", rec.Name, formatter.Dim(fmt.Sprintf("#%d", rec.ID)))
			return nil
		},
	}

	targetFlags(cmd.Flags(), &project, &planID)
	cmd.Flags().StringVar(&name, "name", "", "suite name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
