package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/mbelozerov/caseline/internal/testsvc"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatDraft renders one local draft in full, steps included.
func FormatDraft(c *domain.CaseDraft) string {
	var b strings.Builder

	b.WriteString(StyleBold.Render(c.Title))
	b.WriteString("  " + StatusBadge(c.Status))
	b.WriteString("  " + TypeBadge(c.TestType))
	b.WriteString("\n\n")

	if c.Preconditions != "" {
		b.WriteString(Header("Preconditions") + "\n")
		b.WriteString("  " + c.Preconditions + "\n\n")
	}

	b.WriteString(Header("Steps") + "\n")
	b.WriteString(formatSteps(c.Steps))

	if c.ExpectedResult != "" {
		b.WriteString("\n" + Header("Expected Result") + "\n")
		b.WriteString("  " + c.ExpectedResult + "\n")
	}

	var refs []string
	if c.SuiteID != nil {
		refs = append(refs, fmt.Sprintf("suite #%d", *c.SuiteID))
	}
	if c.RemoteCaseID != nil {
		refs = append(refs, fmt.Sprintf("remote case #%d", *c.RemoteCaseID))
	}
	if len(refs) > 0 {
		b.WriteString("\n" + Dim(strings.Join(refs, " · ")) + "\n")
	}

	return RenderBox(fmt.Sprintf("draft #%d", c.ID), b.String())
}

// FormatRemoteCases renders cases fetched from the Test Service as a table.
func FormatRemoteCases(cases []testsvc.RemoteCase) string {
	if len(cases) == 0 {
		return Dim("No test cases in this suite.")
	}

	rows := make([][]string, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.ID),
			c.Title,
			string(c.TestType),
			fmt.Sprintf("%d", len(c.Steps)),
			c.AssignedTo,
		})
	}
	return RenderTable([]string{"ID", "Title", "Type", "Steps", "Assigned To"}, rows)
}

// FormatDraftList renders local drafts as a one-line-per-draft table.
func FormatDraftList(drafts []*domain.CaseDraft) string {
	if len(drafts) == 0 {
		return Dim("No drafts.")
	}

	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		suite := "-"
		if d.SuiteID != nil {
			suite = fmt.Sprintf("#%d", *d.SuiteID)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.ID),
			d.Title,
			StatusBadge(d.Status),
			suite,
			d.CreatedAt.Format("2006-01-02"),
		})
	}
	return RenderTable([]string{"ID", "Title", "Status", "Suite", "Created"}, rows)
}

func formatSteps(steps []domain.CaseStep) string {
	var b strings.Builder
	for i, s := range steps {
		b.WriteString(fmt.Sprintf("  %s %s\n", StyleBlue.Render(fmt.Sprintf("%d.", i+1)), s.Action))
		if s.Expected != "" {
			b.WriteString("     " + Dim("→ "+s.Expected) + "\n")
		}
	}
	return b.String()
}
