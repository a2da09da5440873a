package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mbelozerov/caseline/internal/cli/formatter"
	"github.com/mbelozerov/caseline/internal/domain"
)

func newDraftCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Write and submit test case drafts",
	}
	cmd.AddCommand(
		newDraftNewCmd(app),
		newDraftListCmd(app),
		newDraftShowCmd(app),
		newDraftSubmitCmd(app),
	)
	return cmd
}

func newDraftNewCmd(app *App) *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Write a test case draft and hand it off",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("draft new needs an interactive terminal")
			}
			ctx := cmd.Context()

			author, err := requireUser(ctx, app)
			if err != nil {
				return err
			}

			draft, err := runDraftWizard()
			if err != nil {
				return err
			}

			if publish {
				project, planID, suite := app.Session.Selection()
				if project == "" || planID == 0 || suite == nil {
					return fmt.Errorf("publishing needs a project, plan and suite selection")
				}
				stop := formatter.StartSpinner("Publishing...")
				err = app.Review.PublishDirect(ctx, author, []*domain.CaseDraft{draft}, project, planID, *suite)
				stop()
				if err != nil {
					return err
				}
				fmt.Printf("Published %q as remote case #%d\n", draft.Title, *draft.RemoteCaseID)
				return nil
			}

			reviewerID, err := pickReviewer(ctx, app, author)
			if err != nil {
				return err
			}
			_, _, suite := app.Session.Selection()
			if err := app.Review.SubmitDrafts(ctx, author, []*domain.CaseDraft{draft}, suite, reviewerID); err != nil {
				return err
			}
			fmt.Printf("Submitted %q for review %s\n", draft.Title, formatter.Dim(fmt.Sprintf("(#%d)", draft.ID)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "publish to the selected suite without review (leads only)")
	return cmd
}

// runDraftWizard collects one draft: the case fields first, then any number
// of steps.
func runDraftWizard() (*domain.CaseDraft, error) {
	var title, preconditions, expected string
	testType := string(domain.TestPositive)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("a title is required")
					}
					return nil
				}),
			huh.NewText().Title("Preconditions").Lines(3).Value(&preconditions),
			huh.NewText().Title("Expected result").Lines(3).Value(&expected),
			huh.NewSelect[string]().Title("Test type").
				Options(
					huh.NewOption("Positive", string(domain.TestPositive)),
					huh.NewOption("Negative", string(domain.TestNegative)),
				).Value(&testType),
		),
	).WithTheme(caselineHuhTheme())
	if err := form.Run(); err != nil {
		return nil, err
	}

	var steps []domain.CaseStep
	for {
		var action, stepExpected string
		more := true

		stepForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title(fmt.Sprintf("Step %d action", len(steps)+1)).Value(&action),
				huh.NewInput().Title("Expected").Value(&stepExpected),
				huh.NewConfirm().Title("Add another step?").Value(&more),
			),
		).WithTheme(caselineHuhTheme())
		if err := stepForm.Run(); err != nil {
			return nil, err
		}
		if action != "" {
			steps = append(steps, domain.CaseStep{Action: action, Expected: stepExpected})
		}
		if !more {
			break
		}
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("a draft needs at least one step")
	}

	return &domain.CaseDraft{
		Title:          title,
		Steps:          steps,
		Preconditions:  preconditions,
		ExpectedResult: expected,
		TestType:       domain.TestType(testType),
	}, nil
}

// pickReviewer offers the leads of the author's organization.
func pickReviewer(ctx context.Context, app *App, author *domain.User) (int64, error) {
	reviewers, err := app.Auth.ListReviewers(ctx, author.OrgURL)
	if err != nil {
		return 0, err
	}
	if len(reviewers) == 0 {
		return 0, fmt.Errorf("no leads registered in %s", author.OrgURL)
	}

	options := make([]huh.Option[int64], 0, len(reviewers))
	for _, r := range reviewers {
		options = append(options, huh.NewOption(r.Username, r.ID))
	}

	var id int64
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Reviewer").Options(options...).Value(&id),
		),
	).WithTheme(caselineHuhTheme())
	if err := form.Run(); err != nil {
		return 0, err
	}
	return id, nil
}

func newDraftListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your drafts and their review status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			author, err := requireUser(ctx, app)
			if err != nil {
				return err
			}

			drafts, err := app.Review.DraftsByAuthor(ctx, author.ID)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatDraftList(drafts))
			return nil
		},
	}
}

func newDraftShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <draft-id>",
		Short: "Show one draft in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid draft id %q", args[0])
			}

			draft, err := app.Review.Draft(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatDraft(draft))
			return nil
		},
	}
}

// newDraftSubmitCmd resubmits an existing draft's content as a fresh pending
// draft, the path for reworking a rejected case.
func newDraftSubmitCmd(app *App) *cobra.Command {
	var reviewerID, suiteID int64

	cmd := &cobra.Command{
		Use:   "submit <draft-id>",
		Short: "Resubmit a draft's content for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			author, err := requireUser(ctx, app)
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid draft id %q", args[0])
			}
			prev, err := app.Review.Draft(ctx, id)
			if err != nil {
				return err
			}

			if reviewerID == 0 {
				if !app.interactive() {
					return fmt.Errorf("pass --reviewer or run interactively")
				}
				reviewerID, err = pickReviewer(ctx, app, author)
				if err != nil {
					return err
				}
			}

			// Content is immutable once stored; reworking means a new row.
			fresh := &domain.CaseDraft{
				Title:          prev.Title,
				Steps:          prev.Steps,
				Preconditions:  prev.Preconditions,
				ExpectedResult: prev.ExpectedResult,
				TestType:       prev.TestType,
				SuiteID:        prev.SuiteID,
				RemoteCaseID:   prev.RemoteCaseID,
			}
			var suite *int64
			if suiteID != 0 {
				suite = &suiteID
			}
			if err := app.Review.SubmitDrafts(ctx, author, []*domain.CaseDraft{fresh}, suite, reviewerID); err != nil {
				return err
			}
			fmt.Printf("Submitted %q for review %s\n", fresh.Title, formatter.Dim(fmt.Sprintf("(#%d)", fresh.ID)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&reviewerID, "reviewer", 0, "reviewer user id")
	cmd.Flags().Int64Var(&suiteID, "suite", 0, "target suite id")

	return cmd
}
