package formatter

import (
	"fmt"
	"strings"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/service"
)

// FormatReviewQueue renders a reviewer's pending batches. Author names are
// resolved by the caller; unknown ids fall back to "#<id>".
func FormatReviewQueue(batches []service.ReviewBatch, authorNames map[int64]string) string {
	if len(batches) == 0 {
		return Dim("Nothing waiting for your review.")
	}

	var b strings.Builder
	for i, batch := range batches {
		author := authorNames[batch.AuthorID]
		if author == "" {
			author = fmt.Sprintf("#%d", batch.AuthorID)
		}
		suite := "no suite"
		if batch.SuiteID != nil {
			suite = fmt.Sprintf("suite #%d", *batch.SuiteID)
		}

		b.WriteString(StyleHeader.Render(fmt.Sprintf("Batch %d", i+1)))
		b.WriteString(Dim(fmt.Sprintf("  %s · by %s · %d case(s)\n", suite, author, len(batch.Cases))))
		for _, c := range batch.Cases {
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				StyleYellow.Render("•"),
				StyleFg.Render(c.Title),
				Dim(fmt.Sprintf("(#%d, %d steps)", c.ID, len(c.Steps)))))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// FormatDecision renders the outcome line of a single review decision.
func FormatDecision(c *domain.CaseDraft) string {
	switch c.Status {
	case domain.CaseApproved:
		suffix := ""
		if c.RemoteCaseID != nil {
			suffix = Dim(fmt.Sprintf("  → remote case #%d", *c.RemoteCaseID))
		}
		return StyleGreen.Render(fmt.Sprintf("✔ approved %q", c.Title)) + suffix
	case domain.CaseRejected:
		return StyleRed.Render(fmt.Sprintf("✘ rejected %q", c.Title))
	default:
		return StyleYellow.Render(fmt.Sprintf("… %q is still pending", c.Title))
	}
}

// FormatBatchResult renders the summary after a batch approval.
func FormatBatchResult(approved, total int, err error) string {
	if err != nil {
		return fmt.Sprintf("%s %s",
			StyleRed.Render(fmt.Sprintf("Stopped after %d of %d:", approved, total)),
			err.Error())
	}
	return StyleGreen.Render(fmt.Sprintf("Approved all %d case(s).", total))
}
