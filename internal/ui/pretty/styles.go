// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// defaultTermWidth is used when the output is not a terminal.
const defaultTermWidth = 100

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Event trace
	Begin    lipgloss.Style
	End      lipgloss.Style
	Text     lipgloss.Style
	Inline   lipgloss.Style
	Verbatim lipgloss.Style
	Params   lipgloss.Style
	Branch   lipgloss.Style

	// Tokens
	State     lipgloss.Style
	TokenKind lipgloss.Style
	Position  lipgloss.Style

	// Outcomes
	FilePath lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return &Styles{
		Begin:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		End:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Text:     lipgloss.NewStyle(),
		Inline:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Verbatim: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Params:   dim.Italic(true),
		Branch:   dim,

		State:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		TokenKind: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Position:  dim,

		FilePath: lipgloss.NewStyle().Bold(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableSeparator: dim,

		Dim:  dim,
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Begin:          plain,
		End:            plain,
		Text:           plain,
		Inline:         plain,
		Verbatim:       plain,
		Params:         plain,
		Branch:         plain,
		State:          plain,
		TokenKind:      plain,
		Position:       plain,
		FilePath:       plain,
		Error:          plain,
		Warning:        plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableSeparator: plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// TerminalWidth returns the width of the terminal behind w, or a default
// when w is not a terminal.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}
