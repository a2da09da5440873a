package cli

import (
	"github.com/spf13/cobra"

	"github.com/mbelozerov/caseline/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Auth    service.AuthService
	Suites  service.SuiteService
	Review  service.ReviewService
	Session *service.Session

	// IsInteractive reports whether stdin is a terminal; forms and pickers
	// are only offered when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "caseline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "caseline",
		Short: "Draft, review and publish test cases to your test management service",
	}

	root.AddCommand(
		newRegisterCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newProjectCmd(app),
		newPlanCmd(app),
		newSuiteCmd(app),
		newCaseCmd(app),
		newDraftCmd(app),
		newReviewCmd(app),
		newUserCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
