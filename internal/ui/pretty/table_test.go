package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xwikiparse/internal/ui/pretty"
	"github.com/yaklabco/xwikiparse/pkg/analysis"
)

func TestFormatCounts(t *testing.T) {
	t.Parallel()

	tf := pretty.NewTableFormatter(pretty.NewStyles(false), 0)

	out := tf.FormatCounts("Macros", []analysis.NamedCount{
		{Name: "code", Count: 3},
		{Name: "toc", Count: 1},
	})

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "MACROS"))
	assert.True(t, strings.HasSuffix(lines[0], "COUNT    SHARE"))
	assert.Equal(t, strings.Repeat("=", len(lines[0])), lines[1])
	assert.Equal(t, "code                 3    75.0%", lines[2])
	assert.Equal(t, "toc                  1    25.0%", lines[3])

	assert.Empty(t, tf.FormatCounts("Nothing", nil))
}

func TestFormatCounts_Truncates(t *testing.T) {
	t.Parallel()

	tf := pretty.NewTableFormatter(pretty.NewStyles(false), 40)

	out := tf.FormatCounts("Macros", []analysis.NamedCount{
		{Name: strings.Repeat("x", 80), Count: 1},
	})
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 40, line)
	}
	assert.Contains(t, out, "…")
}
