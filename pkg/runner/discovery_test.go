package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xwikiparse/pkg/runner"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func relPaths(t *testing.T, dir string, files []string) []string {
	t.Helper()
	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"Main.xwiki":            "= Main =",
		"Sandbox/Test.wiki":     "text",
		"Sandbox/Other.XWIKI21": "text",
		"drafts/Draft.xwiki":    "draft",
		"notes.txt":             "not markup",
		".hidden/Secret.xwiki":  "hidden",
		"Sandbox/.Dot.xwiki":    "hidden",
		"old/Page.bak.xwiki":    "backup",
	})

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults",
			opts: runner.Options{},
			want: []string{
				"Main.xwiki", "Sandbox/Other.XWIKI21", "Sandbox/Test.wiki",
				"drafts/Draft.xwiki", "old/Page.bak.xwiki",
			},
		},
		{
			name: "ignore directory",
			opts: runner.Options{ExcludeGlobs: []string{"drafts/**"}},
			want: []string{
				"Main.xwiki", "Sandbox/Other.XWIKI21", "Sandbox/Test.wiki", "old/Page.bak.xwiki",
			},
		},
		{
			name: "ignore by base name",
			opts: runner.Options{ExcludeGlobs: []string{"*.bak.xwiki", "Test.*"}},
			want: []string{"Main.xwiki", "Sandbox/Other.XWIKI21", "drafts/Draft.xwiki"},
		},
		{
			name: "double star in the middle",
			opts: runner.Options{ExcludeGlobs: []string{"**/Draft.xwiki"}},
			want: []string{
				"Main.xwiki", "Sandbox/Other.XWIKI21", "Sandbox/Test.wiki", "old/Page.bak.xwiki",
			},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".txt"}},
			want: []string{"notes.txt"},
		},
		{
			name: "sub path and duplicates",
			opts: runner.Options{Paths: []string{"Sandbox", "Sandbox/Test.wiki", "notes.txt"}},
			want: []string{"Sandbox/Other.XWIKI21", "Sandbox/Test.wiki"},
		},
		{
			name: "explicit hidden file",
			opts: runner.Options{Paths: []string{"Sandbox/.Dot.xwiki"}},
			want: []string{"Sandbox/.Dot.xwiki"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts := tc.opts
			opts.WorkingDir = dir

			files, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, relPaths(t, dir, files))
		})
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"missing"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"[a"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"[a"`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Discover(ctx, runner.Options{WorkingDir: dir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outside := t.TempDir()
	writeTree(t, dir, map[string]string{"a/Page.xwiki": "x"})
	writeTree(t, outside, map[string]string{"Linked.xwiki": "y"})

	if err := os.Symlink(outside, filepath.Join(dir, "linked")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	// A link back to an ancestor must not loop.
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "a", "loop")))

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/Page.xwiki"}, relPaths(t, dir, files))

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Equal(t, "Linked.xwiki", filepath.Base(files[1]))
}

func TestMatcher(t *testing.T) {
	t.Parallel()

	m, err := runner.CompileIgnore([]string{"build/**", "*.tmp.xwiki", "a/*/c.xwiki"})
	require.NoError(t, err)

	assert.True(t, m.Match("build/x/y.xwiki"))
	assert.True(t, m.Match("deep/Page.tmp.xwiki"))
	assert.True(t, m.Match("a/b/c.xwiki"))
	assert.False(t, m.Match("a/b/b/c.xwiki"))
	assert.False(t, m.Match("src/build.xwiki"))

	var none *runner.Matcher
	assert.False(t, none.Match("anything"))
}
