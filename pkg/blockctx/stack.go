package blockctx

// numKinds bounds the Kind values a stack can hold.
const numKinds = int(Group) + 1

// Stack is the ordered list of open block constructs, outermost first.
// The zero value is an empty stack ready to use.
//
// Every query the parser makes per token is constant time, whatever the
// nesting depth.
type Stack struct {
	items []Context

	// last holds, per kind, one more than the index of the innermost open
	// context of that kind, or 0 when none is open.
	last [numKinds]int

	// prev[i] is the value of last[items[i].Kind] before items[i] was
	// pushed.
	prev []int
}

// New returns an empty stack.
func New() *Stack {
	return &Stack{}
}

// Len returns the number of open contexts.
func (s *Stack) Len() int {
	return len(s.items)
}

// Top returns the innermost context.
func (s *Stack) Top() (Context, bool) {
	if len(s.items) == 0 {
		return Context{}, false
	}
	return s.items[len(s.items)-1], true
}

// TopKind returns the kind of the innermost context, or 0 when the stack
// is empty.
func (s *Stack) TopKind() Kind {
	top, _ := s.Top()
	return top.Kind
}

// Contexts returns a copy of the open contexts, outermost first.
func (s *Stack) Contexts() []Context {
	return append([]Context(nil), s.items...)
}

// SegmentBase returns the index of the first context above the innermost
// open group. Reconciliation never reaches below it.
func (s *Stack) SegmentBase() int {
	return s.last[Group]
}

// InGroup reports whether a group is open.
func (s *Stack) InGroup() bool {
	return s.SegmentBase() > 0
}

// Innermost returns the index of the innermost context of kind within the
// current segment.
func (s *Stack) Innermost(kind Kind) (int, bool) {
	if int(kind) >= numKinds {
		return -1, false
	}
	i := s.last[kind] - 1
	if i < 0 || i < s.SegmentBase() {
		return -1, false
	}
	return i, true
}

// Push opens c on top of the stack after checking that it may be nested
// there. Depth-counted kinds get their Level filled in.
func (s *Stack) Push(c Context) (Context, error) {
	parent := s.TopKind()
	if !CanContain(parent, c.Kind) {
		return Context{}, &InconsistencyError{Parent: parent, Child: c.Kind, Line: c.OpenedAtLine}
	}

	if c.Kind == List || c.Kind == Quotation {
		c.Level = 1
		if i, ok := s.Innermost(c.Kind); ok {
			c.Level = s.items[i].Level + 1
		}
	}

	s.prev = append(s.prev, s.last[c.Kind])
	s.items = append(s.items, c)
	s.last[c.Kind] = len(s.items)
	return c, nil
}

// Pop closes the innermost context.
func (s *Stack) Pop() (Context, bool) {
	top, ok := s.Top()
	if ok {
		n := len(s.items) - 1
		s.last[top.Kind] = s.prev[n]
		s.items[n] = Context{}
		s.items = s.items[:n]
		s.prev = s.prev[:n]
	}
	return top, ok
}

// CloseAbove pops every context above index i, innermost first.
func (s *Stack) CloseAbove(i int) []Context {
	if i < 0 {
		i = 0
	}
	if i >= len(s.items) {
		return nil
	}

	closed := make([]Context, 0, len(s.items)-i)
	for len(s.items) > i {
		c, _ := s.Pop()
		closed = append(closed, c)
	}
	return closed
}

// CloseSegment pops every context above the innermost open group.
func (s *Stack) CloseSegment() []Context {
	return s.CloseAbove(s.SegmentBase())
}

// CloseGroup pops every context up to and including the innermost open
// group. It reports false, and closes nothing, when no group is open.
func (s *Stack) CloseGroup() ([]Context, bool) {
	base := s.SegmentBase()
	if base == 0 {
		return nil, false
	}
	return s.CloseAbove(base - 1), true
}

// FlushAll pops everything, innermost first.
func (s *Stack) FlushAll() []Context {
	return s.CloseAbove(0)
}

// Reconcile brings the current segment in line with want, the nesting a
// new line requires from the segment base outwards. It keeps the longest
// prefix of open contexts that match want, closes the rest innermost first
// and opens the remaining wanted contexts. The returned slices are in the
// order the corresponding end and begin events must be emitted.
//
// An error means a wanted context cannot be nested where it would go; the
// stack is left with the contexts opened so far.
func (s *Stack) Reconcile(want []Want, line int) (toClose, toOpen []Context, err error) {
	base := s.SegmentBase()

	keep := 0
	for keep < len(want) && base+keep < len(s.items) && want[keep].matches(s.items[base+keep]) {
		keep++
	}

	toClose = s.CloseAbove(base + keep)

	toOpen = make([]Context, 0, len(want)-keep)
	for _, w := range want[keep:] {
		c, pushErr := s.Push(Context{
			Kind:         w.Kind,
			Ordered:      w.Ordered,
			HeaderCell:   w.HeaderCell,
			Level:        w.Level,
			Params:       w.Params,
			OpenedAtLine: line,
		})
		if pushErr != nil {
			return toClose, toOpen, pushErr
		}
		toOpen = append(toOpen, c)
	}

	return toClose, toOpen, nil
}

// Validate checks every parent/child pair of the stack.
func (s *Stack) Validate() error {
	var parent Kind
	for _, c := range s.items {
		if !CanContain(parent, c.Kind) {
			return &InconsistencyError{Parent: parent, Child: c.Kind, Line: c.OpenedAtLine}
		}
		parent = c.Kind
	}
	return nil
}
