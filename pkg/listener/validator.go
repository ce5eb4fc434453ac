package listener

import (
	"errors"
	"fmt"
)

// ErrNesting is returned by Validator.Err for a malformed event stream.
var ErrNesting = errors.New("malformed event nesting")

// NestingError describes the first event that broke nesting.
type NestingError struct {
	// Index is the position of the offending event in the stream.
	Index  int
	Event  Event
	Reason string
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("%v: event %d %v: %s", ErrNesting, e.Index, e.Event, e.Reason)
}

func (e *NestingError) Unwrap() error {
	return ErrNesting
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// AsFragment accepts streams without document events, as produced for
// inline fragments.
func AsFragment() ValidatorOption {
	return func(v *Validator) {
		v.fragment = true
	}
}

// Validator checks that the events it receives are well nested and
// forwards them to the wrapped listener.
type Validator struct {
	Func

	next     Listener
	fragment bool

	open    []Event
	index   int
	started bool
	ended   bool
	err     error
}

// NewValidator wraps next, which may be nil.
func NewValidator(next Listener, opts ...ValidatorOption) *Validator {
	v := &Validator{next: next}
	for _, opt := range opts {
		opt(v)
	}
	v.Func = v.handle
	return v
}

func (v *Validator) handle(e Event) {
	v.check(e)
	v.index++
	if v.next != nil {
		Emit(v.next, e)
	}
}

func (v *Validator) check(e Event) {
	if v.err != nil {
		return
	}

	switch e.Type {
	case EventBeginDocument:
		if v.fragment || v.started {
			v.fail(e, "unexpected beginDocument")
			return
		}
		v.started = true
	case EventEndDocument:
		if len(v.open) > 0 {
			v.fail(e, fmt.Sprintf("%v still open", v.open[len(v.open)-1].Type))
			return
		}
		if !v.started || v.ended {
			v.fail(e, "endDocument without beginDocument")
			return
		}
		v.ended = true
		return
	}

	if v.ended {
		v.fail(e, "event after endDocument")
		return
	}
	if !v.fragment && !v.started {
		v.fail(e, "event before beginDocument")
		return
	}

	switch {
	case e.Type == EventBeginDocument:
	case e.Type.IsBegin():
		v.open = append(v.open, e)
	case e.Type.IsEnd():
		v.close(e)
	case e.Type == EventEmptyLines && e.Count <= 0:
		v.fail(e, "non-positive empty line count")
	}
}

func (v *Validator) close(e Event) {
	if len(v.open) == 0 {
		v.fail(e, "nothing open")
		return
	}

	top := v.open[len(v.open)-1]
	if top.Type.End() != e.Type {
		v.fail(e, fmt.Sprintf("innermost open construct is %v", top.Type))
		return
	}

	switch e.Type {
	case EventEndHeader:
		if top.Level != e.Level {
			v.fail(e, fmt.Sprintf("header opened with level %d", top.Level))
			return
		}
	case EventEndList:
		if top.Ordered != e.Ordered {
			v.fail(e, fmt.Sprintf("list opened with ordered=%t", top.Ordered))
			return
		}
	case EventEndFormat:
		if top.Format != e.Format {
			v.fail(e, fmt.Sprintf("format %v is innermost", top.Format))
			return
		}
	}

	v.open = v.open[:len(v.open)-1]
}

func (v *Validator) fail(e Event, reason string) {
	v.err = &NestingError{Index: v.index, Event: e, Reason: reason}
}

// Depth returns the number of constructs currently open.
func (v *Validator) Depth() int {
	return len(v.open)
}

// Err returns the first nesting violation, or an error for a stream that
// is incomplete: constructs left open or, unless validating a fragment, a
// document that was never ended.
func (v *Validator) Err() error {
	if v.err != nil {
		return v.err
	}
	if len(v.open) > 0 {
		top := v.open[len(v.open)-1]
		return &NestingError{Index: v.index, Event: top, Reason: "never closed"}
	}
	if !v.fragment && !v.ended {
		return fmt.Errorf("%w: document was never ended", ErrNesting)
	}
	return nil
}
