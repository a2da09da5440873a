package formatter

import (
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mbelozerov/caseline/internal/domain"
)

func init() {
	// CASELINE_NO_COLOR strips all styling, alongside lipgloss's own
	// terminal detection.
	if v, _ := strconv.ParseBool(os.Getenv("CASELINE_NO_COLOR")); v {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusBadge returns a colored badge string for a case status,
// such as "● PENDING".
func StatusBadge(status domain.CaseStatus) string {
	switch status {
	case domain.CaseApproved:
		return StyleGreen.Render("● APPROVED")
	case domain.CaseRejected:
		return StyleRed.Render("● REJECTED")
	case domain.CasePending:
		return StyleYellow.Render("● PENDING")
	default:
		return StyleDim.Render("● " + string(status))
	}
}

// TypeBadge returns a colored badge for a test type.
func TypeBadge(t domain.TestType) string {
	if t == domain.TestNegative {
		return StylePurple.Render("[negative]")
	}
	return StyleBlue.Render("[positive]")
}

// Dim renders text in the dim style.
func Dim(s string) string {
	return StyleDim.Render(s)
}

// Header renders text as a section header.
func Header(s string) string {
	return StyleHeader.Render(s)
}
