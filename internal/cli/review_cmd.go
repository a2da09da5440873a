package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mbelozerov/caseline/internal/cli/formatter"
	"github.com/mbelozerov/caseline/internal/service"
)

func newReviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review and publish pending test cases",
	}
	cmd.AddCommand(
		newReviewListCmd(app),
		newReviewApproveCmd(app),
		newReviewApproveBatchCmd(app),
		newReviewRejectCmd(app),
	)
	return cmd
}

func newReviewListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the cases waiting for your review",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reviewer, err := requireUser(ctx, app)
			if err != nil {
				return err
			}

			batches, err := app.Review.PendingForReviewer(ctx, reviewer.ID)
			if err != nil {
				return err
			}

			names := make(map[int64]string)
			for _, b := range batches {
				if _, ok := names[b.AuthorID]; ok {
					continue
				}
				if author, err := app.Auth.GetUser(ctx, b.AuthorID); err == nil {
					names[b.AuthorID] = author.Username
				}
			}
			fmt.Print(formatter.FormatReviewQueue(batches, names))
			return nil
		},
	}
}

func newReviewApproveCmd(app *App) *cobra.Command {
	var projectFlag string
	var planFlag, suiteFlag int64

	cmd := &cobra.Command{
		Use:   "approve <case-id>",
		Short: "Approve one case and publish it to the remote suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := requireUser(ctx, app); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid case id %q", args[0])
			}

			opts := service.ApproveOptions{Project: projectFlag, PlanID: planFlag}
			if suiteFlag != 0 {
				opts.SuiteID = &suiteFlag
			}

			stop := formatter.StartSpinner("Publishing...")
			err = app.Review.Approve(ctx, id, opts)
			stop()
			if err != nil {
				return err
			}

			c, err := app.Review.Draft(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatDecision(c))
			return nil
		},
	}

	targetFlags(cmd.Flags(), &projectFlag, &planFlag)
	cmd.Flags().Int64Var(&suiteFlag, "suite", 0, "override the target suite")

	return cmd
}

func newReviewApproveBatchCmd(app *App) *cobra.Command {
	var projectFlag string
	var planFlag, suiteFlag int64
	var batchNo int

	cmd := &cobra.Command{
		Use:   "approve-batch",
		Short: "Approve a whole batch in order, stopping at the first failure",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reviewer, err := requireUser(ctx, app)
			if err != nil {
				return err
			}

			batches, err := app.Review.PendingForReviewer(ctx, reviewer.ID)
			if err != nil {
				return err
			}
			if len(batches) == 0 {
				fmt.Println(formatter.Dim("Nothing waiting for your review."))
				return nil
			}
			if batchNo < 1 || batchNo > len(batches) {
				return fmt.Errorf("batch %d does not exist: you have %d batch(es), see caseline review list", batchNo, len(batches))
			}
			batch := batches[batchNo-1]

			opts := service.ApproveOptions{Project: projectFlag, PlanID: planFlag}
			if suiteFlag != 0 {
				opts.SuiteID = &suiteFlag
			}

			stop := formatter.StartSpinner(fmt.Sprintf("Publishing %d case(s)...", len(batch.Cases)))
			approved, err := app.Review.ApproveBatch(ctx, batch, opts)
			stop()

			fmt.Println(formatter.FormatBatchResult(approved, len(batch.Cases), err))
			return nil
		},
	}

	cmd.Flags().IntVar(&batchNo, "batch", 1, "batch number from caseline review list")
	targetFlags(cmd.Flags(), &projectFlag, &planFlag)
	cmd.Flags().Int64Var(&suiteFlag, "suite", 0, "override the target suite")

	return cmd
}

func newReviewRejectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <case-id>",
		Short: "Reject a pending case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := requireUser(ctx, app); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid case id %q", args[0])
			}

			if err := app.Review.Reject(ctx, id); err != nil {
				return err
			}
			c, err := app.Review.Draft(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatDecision(c))
			return nil
		},
	}
}
