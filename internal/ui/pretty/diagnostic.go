package pretty

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/xwikiparse/pkg/listener"
	"github.com/yaklabco/xwikiparse/pkg/runner"
)

// FormatOutcome formats a failed or malformed file for terminal output.
// It returns "" for a file that parsed cleanly.
func (s *Styles) FormatOutcome(outcome runner.FileOutcome) string {
	var builder strings.Builder

	if outcome.Error != nil {
		builder.WriteString(fmt.Sprintf("%s: %s %s\n",
			s.FilePath.Render(outcome.Path),
			s.Error.Render("error"),
			outcome.Error.Error(),
		))
	}

	if outcome.Nesting != nil {
		builder.WriteString(fmt.Sprintf("%s: %s %s\n",
			s.FilePath.Render(outcome.Path),
			s.Warning.Render("malformed"),
			s.formatNesting(outcome.Nesting),
		))
	}

	return builder.String()
}

func (s *Styles) formatNesting(err error) string {
	var nesting *listener.NestingError
	if !errors.As(err, &nesting) {
		return err.Error()
	}
	return fmt.Sprintf("event %d %s: %s",
		nesting.Index,
		s.Inline.Render(nesting.Event.String()),
		nesting.Reason,
	)
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, events int) string {
	header := s.FilePath.Render(path)
	if events > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", events, plural(events, "event", "events")))
	}
	return header
}
