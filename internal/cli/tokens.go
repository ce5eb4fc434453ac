package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/logging"
	"github.com/yaklabco/xwikiparse/internal/ui/pretty"
	"github.com/yaklabco/xwikiparse/pkg/lexer"
	"github.com/yaklabco/xwikiparse/pkg/token"
)

type tokensFlags struct {
	runFlags

	state  string
	asJSON bool
}

// tokenInfo is the JSON form of a token.
type tokenInfo struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	State  string `json:"state"`
	Kind   string `json:"kind"`
	Text   string `json:"text"`
}

func newTokensCommand() *cobra.Command {
	flags := &tokensFlags{}

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a document",
		Long: `Print the tokens the lexer produces for a document, one per line.

The document is read from the named file, or from standard input when no
file or "-" is given. Scanning starts in the LINE_START state unless
--state names another.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, flags)
		},
	}

	addParserFlags(cmd, &flags.runFlags)
	cmd.Flags().StringVar(&flags.state, "state", "line_start", "lexical state to start in")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "output as JSON")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, flags *tokensFlags) error {
	state, err := token.ParseState(flags.state)
	if err != nil {
		return newUsageError(err)
	}

	sess, err := newSession(cmd, flags.cliConfig(cmd))
	if err != nil {
		return err
	}

	_, src, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	sess.logger.Debug("scanning", logging.FieldState, state)
	tokens := lexer.Scan(src, state,
		lexer.WithEscape(sess.cfg.EscapeRune()),
		lexer.WithMaxLookahead(sess.cfg.MaxLookahead),
	)

	out := cmd.OutOrStdout()
	if flags.asJSON {
		infos := make([]tokenInfo, 0, len(tokens))
		for _, tok := range tokens {
			infos = append(infos, tokenInfo{
				Line:   tok.Line(),
				Column: tok.Column(),
				State:  tok.State.String(),
				Kind:   tok.Kind.String(),
				Text:   tok.Text,
			})
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(infos); err != nil {
			return fmt.Errorf("encode tokens: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(sess.color(), out))

	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(styles.Position.Render(fmt.Sprintf("%4d:%-4d", tok.Line(), tok.Column())))
		sb.WriteString(" ")
		sb.WriteString(styles.State.Render(fmt.Sprintf("%-10s", tok.State)))
		sb.WriteString(" ")
		sb.WriteString(styles.TokenKind.Render(fmt.Sprintf("%-16s", tok.Kind)))
		sb.WriteString(" ")
		sb.WriteString(styles.Text.Render(fmt.Sprintf("%q", tok.Text)))
		sb.WriteString("\n")
	}

	if _, err := fmt.Fprint(out, sb.String()); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}
