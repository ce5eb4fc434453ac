package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/xwikiparse/internal/ui/pretty"
	"github.com/yaklabco/xwikiparse/pkg/lexer"
	"github.com/yaklabco/xwikiparse/pkg/token"
)

// ruleInfo is the JSON form of a lexer rule.
type ruleInfo struct {
	Kind       string `json:"kind"`
	Pattern    string `json:"pattern"`
	Transition string `json:"transition"`
	Fallback   bool   `json:"fallback,omitempty"`
}

// stateInfo is the JSON form of a lexical state's rules.
type stateInfo struct {
	State string     `json:"state"`
	Rules []ruleInfo `json:"rules"`
}

func newGrammarCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "grammar [state]",
		Short: "Print the lexer rules of each lexical state",
		Long: `Print the ordered lexer rules of each lexical state.

Rules are tried in order and the longest match wins; ties go to the rule
listed first. The fallback applies when no rule matches. Pass a state name
to print only that state.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			states := token.States()
			if len(args) == 1 {
				state, err := token.ParseState(args[0])
				if err != nil {
					return newUsageError(err)
				}
				states = []token.State{state}
			}
			if asJSON {
				return printGrammarJSON(cmd, states)
			}
			return printGrammar(cmd, states)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func grammarOf(states []token.State) []stateInfo {
	table := lexer.DefaultTable()
	infos := make([]stateInfo, 0, len(states))

	for _, state := range states {
		info := stateInfo{State: state.String()}
		for _, rule := range table.Rules(state) {
			info.Rules = append(info.Rules, ruleInfo{
				Kind:       rule.Kind.String(),
				Pattern:    rule.Pattern,
				Transition: rule.Next.String(),
			})
		}
		fallback := table.Fallback(state)
		info.Rules = append(info.Rules, ruleInfo{
			Kind:       fallback.Kind.String(),
			Pattern:    fallback.Pattern,
			Transition: fallback.Next.String(),
			Fallback:   true,
		})
		infos = append(infos, info)
	}

	return infos
}

func printGrammarJSON(cmd *cobra.Command, states []token.State) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(grammarOf(states)); err != nil {
		return fmt.Errorf("encode grammar: %w", err)
	}
	return nil
}

func printGrammar(cmd *cobra.Command, states []token.State) error {
	out := cmd.OutOrStdout()
	color, _ := cmd.Flags().GetString("color")
	styles := pretty.NewStyles(pretty.IsColorEnabled(color, out))

	var sb strings.Builder
	for i, info := range grammarOf(states) {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(styles.State.Render(info.State))
		sb.WriteString("\n")

		for _, rule := range info.Rules {
			kind := fmt.Sprintf("%-16s", rule.Kind)
			if rule.Fallback {
				kind = fmt.Sprintf("%-16s", "*"+rule.Kind)
			}
			sb.WriteString("  ")
			sb.WriteString(styles.TokenKind.Render(kind))
			sb.WriteString(" ")
			sb.WriteString(fmt.Sprintf("%-28s", rule.Pattern))
			sb.WriteString(" ")
			sb.WriteString(styles.Dim.Render(rule.Transition))
			sb.WriteString("\n")
		}
	}

	if _, err := fmt.Fprint(out, sb.String()); err != nil {
		return fmt.Errorf("write grammar: %w", err)
	}
	return nil
}
