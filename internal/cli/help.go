// Package cli provides the Cobra command structure for xwikiparse.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/ui/pretty"
)

// minHelpWidth keeps long descriptions readable on narrow terminals.
const minHelpWidth = 40

// HelpFormatter renders styled help output for Cobra commands. Colour and
// width are resolved per invocation from the --color flag and the output.
type HelpFormatter struct {
	defaultColor string
}

// NewHelpFormatter creates a help formatter using colorMode when a command
// has no --color flag.
func NewHelpFormatter(colorMode string) *HelpFormatter {
	return &HelpFormatter{defaultColor: colorMode}
}

func (h *HelpFormatter) styles(cmd *cobra.Command, w io.Writer) *pretty.Styles {
	mode := h.defaultColor
	if flag := cmd.Flags().Lookup("color"); flag != nil {
		mode = flag.Value.String()
	}
	return pretty.NewStyles(pretty.IsColorEnabled(mode, w))
}

func (h *HelpFormatter) funcs(styles *pretty.Styles, width int) template.FuncMap {
	return template.FuncMap{
		"heading":    styles.SummaryTitle.Render,
		"command":    styles.FilePath.Render,
		"subcommand": styles.TokenKind.Render,
		"dim":        styles.Dim.Render,
		"flags":      func(usages string) string { return styleFlags(styles, usages) },
		"wrap":       func(s string) string { return wrapText(s, width) },
		"rpad":       rpad,
		"join":       strings.Join,
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags.FlagUsages }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags.FlagUsages }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ wrap . }}

{{end}}` + usageTemplate

// ApplyToCommand installs the styled help and usage output on cmd. Cobra
// hands both functions down to every subcommand.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return h.execute(c, "usage", usageTemplate)
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.execute(c, "help", helpTemplate); err != nil {
			c.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) execute(cmd *cobra.Command, name, text string) error {
	out := cmd.OutOrStdout()
	width := max(pretty.TerminalWidth(out), minHelpWidth)

	tmpl, err := template.New(name).Funcs(h.funcs(h.styles(cmd, out), width)).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(out, cmd); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// styleFlags colours the flag names of pflag usage lines and dims their
// value types. Lines look like "  -j, --jobs int   number of workers".
func styleFlags(styles *pretty.Styles, usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		indent := line[:len(line)-len(trimmed)]

		names, desc, ok := strings.Cut(trimmed, "   ")
		if !ok {
			continue
		}

		var sb strings.Builder
		for j, field := range strings.Fields(names) {
			if j > 0 {
				sb.WriteString(" ")
			}
			if name, comma := strings.CutSuffix(field, ","); strings.HasPrefix(name, "-") {
				sb.WriteString(styles.Bold.Render(name))
				if comma {
					sb.WriteString(",")
				}
				continue
			}
			sb.WriteString(styles.Dim.Render(field))
		}

		pad := max(len(trimmed)-len(names)-len(strings.TrimLeft(desc, " ")), 3)
		lines[i] = indent + sb.String() + strings.Repeat(" ", pad) + strings.TrimLeft(desc, " ")
	}
	return strings.Join(lines, "\n")
}

// wrapText wraps prose to width. Indented lines, such as examples, are
// kept as they are.
func wrapText(s string, width int) string {
	lines := strings.Split(strings.TrimRight(s, " \t\n"), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.HasPrefix(line, " ") {
			lines[i] = line
			continue
		}
		lines[i] = wordwrap.String(line, width)
	}
	return strings.Join(lines, "\n")
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}
