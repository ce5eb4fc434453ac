package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/xwikiparse/pkg/params"
)

func TestParse(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name  string
		input string
		want  params.Params
	}

	tests := []testCase{
		{name: "empty", input: "", want: nil},
		{name: "blanks only", input: "   ", want: nil},
		{name: "quoted", input: `class="note"`, want: params.Params{"class": "note"}},
		{name: "unquoted", input: `lang=java`, want: params.Params{"lang": "java"}},
		{name: "several", input: ` a="1"  b=2 c="three four" `, want: params.Params{"a": "1", "b": "2", "c": "three four"}},
		{name: "bare key", input: `collapsed`, want: params.Params{"collapsed": "true"}},
		{name: "escaped quote", input: `title="say ~"hi~""`, want: params.Params{"title": `say "hi"`}},
		{name: "backslash quote", input: `title="a\"b"`, want: params.Params{"title": `a"b`}},
		{name: "backslash kept", input: `path="c:\dir"`, want: params.Params{"path": `c:\dir`}},
		{name: "escape escapes itself", input: `x="~~"`, want: params.Params{"x": "~"}},
		{name: "escaped blank in unquoted", input: `x=a~ b`, want: params.Params{"x": "a b"}},
		{name: "unterminated quote", input: `x="open`, want: params.Params{"x": "open"}},
		{name: "empty value", input: `x=`, want: params.Params{"x": ""}},
		{name: "stray quote", input: `"x=1`, want: params.Params{"x": "1"}},
		{name: "last wins", input: `x=1 x=2`, want: params.Params{"x": "2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, params.Parse(tc.input, params.DefaultEscape))
		})
	}
}

func TestParams_String(t *testing.T) {
	t.Parallel()

	p := params.Params{"b": `say "x"`, "a": "1"}
	assert.Equal(t, `a="1" b="say ~"x~""`, p.String())

	// The rendered form parses back to the same parameters.
	assert.Equal(t, p, params.Parse(p.String(), params.DefaultEscape))
}

func TestParams_MergeAndClone(t *testing.T) {
	t.Parallel()

	base := params.Params{"a": "1", "b": "2"}
	merged := base.Merge(params.Params{"b": "3"})

	assert.Equal(t, params.Params{"a": "1", "b": "3"}, merged)
	assert.Equal(t, "2", base["b"], "merge must not modify the receiver")
	assert.Nil(t, params.Params(nil).Clone())
	assert.Equal(t, []string{"a", "b"}, merged.Keys())
}

func TestIndexUnescaped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		sep  string
		want int
	}{
		{"a|b", "|", 1},
		{"a~|b|c", "|", 4},
		{"a~~|b", "|", 3},
		{"a>>b", ">>", 1},
		{"a~>>b", ">>", -1},
		{"abc", "|", -1},
	}

	for _, tt := range tests {
		got := params.IndexUnescaped([]rune(tt.src), []rune(tt.sep), '~')
		assert.Equal(t, tt.want, got, "src=%q sep=%q", tt.src, tt.sep)
	}
}

func TestUnescapeAndDangling(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a|b~", params.Unescape([]rune("a~|b~~"), '~'))
	assert.Equal(t, "x~", params.Unescape([]rune("x~"), '~'))

	assert.True(t, params.DanglingEscape([]rune("abc~"), '~'))
	assert.False(t, params.DanglingEscape([]rune("abc~~"), '~'))
	assert.True(t, params.DanglingEscape([]rune("~~~"), '~'))
	assert.False(t, params.DanglingEscape([]rune(""), '~'))
}
