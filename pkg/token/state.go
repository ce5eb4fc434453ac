package token

import (
	"fmt"
	"strings"
)

// State is a lexical state. It selects which rule table the lexer uses.
type State uint8

// Lexical states.
const (
	StateDefault   State = iota // inline content of paragraphs, list items and quotations
	StateLineStart              // first token of a physical line
	StateTable                  // inline content of table rows, where '|' separates cells
	StateHeader                 // inline content of a header line
	StateVerbatim               // raw text inside "{{{ }}}"
	StateMacro                  // raw text inside a macro body
	StateInline                 // inline-only fragments, line breaks never start blocks
	stateCount
)

var stateNames = [...]string{
	StateDefault:   "DEFAULT",
	StateLineStart: "LINE_START",
	StateTable:     "TABLE",
	StateHeader:    "HEADER",
	StateVerbatim:  "VERBATIM",
	StateMacro:     "MACRO",
	StateInline:    "INLINE",
}

func (s State) String() string {
	if s < stateCount {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// States returns every lexical state in declaration order.
func States() []State {
	states := make([]State, 0, stateCount)
	for s := range stateCount {
		states = append(states, s)
	}
	return states
}

// ParseState converts a state name (case-insensitive, '-' accepted for '_')
// into a State.
func ParseState(name string) (State, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	for s, n := range stateNames {
		if n == norm {
			return State(s), nil //nolint:gosec // bounded by stateCount
		}
	}
	return 0, fmt.Errorf("unknown lexical state %q", name)
}

// Op is the kind of state change a recognised token requests.
type Op uint8

// Transition operations.
const (
	Stay Op = iota // keep the current state
	Goto           // replace the current state
	Push           // save the current state, then switch
)

// Transition is the state change requested alongside a token.
// Pops are never requested by the lexer; the parser restores a saved state
// once it has seen the close marker that balances a Push.
type Transition struct {
	Op    Op
	State State
}

// Apply returns the state that follows cur.
func (t Transition) Apply(cur State) State {
	if t.Op == Stay {
		return cur
	}
	return t.State
}

func (t Transition) String() string {
	switch t.Op {
	case Goto:
		return "goto " + t.State.String()
	case Push:
		return "push " + t.State.String()
	default:
		return "stay"
	}
}
