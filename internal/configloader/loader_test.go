package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/xwikiparse/pkg/config"
)

// hermetic returns options that only look at dir.
func hermetic(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	result, err := Load(context.Background(), hermetic(dir))
	require.NoError(t, err)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	writeFile(t, filepath.Join(root, ".xwikiparse.yml"), "escape: '$'\nignore: [drafts/**]\ndetect_language: true\n")

	sub := filepath.Join(root, "docs", "guide")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), hermetic(sub))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, ".xwikiparse.yml")}, result.LoadedFrom)
	assert.Equal(t, '$', result.Config.EscapeRune())
	assert.Equal(t, []string{"drafts/**"}, result.Config.Ignore)
	assert.True(t, result.Config.DetectLanguageEnabled())
	assert.Equal(t, config.DefaultExtensions(), result.Config.Extensions, "unset keys keep defaults")
}

func TestLoad_SearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".xwikiparse.yml"), "jobs: 2\n")

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	found, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".xwikiparse.yml"), "jobs: 2\nformat: tree\n")
	explicit := filepath.Join(dir, "ci.yml")
	writeFile(t, explicit, "jobs: 3\n")

	opts := hermetic(dir)
	opts.ExplicitPath = explicit
	opts.CLIConfig = &config.Config{Format: config.FormatJSON}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{explicit}, result.LoadedFrom, "an explicit file replaces the project file")
	assert.Equal(t, 3, result.Config.Jobs)
	assert.Equal(t, config.FormatJSON, result.Config.Format)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown key", content: "flavor: gfm\n", wantErr: "field flavor not found"},
		{name: "invalid format", content: "format: sarif\n", wantErr: `invalid format "sarif"`},
		{name: "bad escape", content: "escape: ab\n", wantErr: "single character"},
		{name: "bad syntax", content: "syntax: xwiki/2.0\n", wantErr: "unsupported syntax"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
			writeFile(t, filepath.Join(dir, ".xwikiparse.yml"), tc.content)

			_, err := Load(context.Background(), hermetic(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)

			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, hermetic(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("XWIKIPARSE_JOBS", "4")
	t.Setenv("XWIKIPARSE_EXTENSIONS", " .txt , ,.wiki ")
	t.Setenv("XWIKIPARSE_DETECT_LANGUAGE", "false")
	t.Setenv("XWIKIPARSE_COLOR", "never")

	cfg := config.NewConfig()
	cfg.DetectLanguage = config.Bool(true)
	require.NoError(t, LoadFromEnv(cfg))

	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, []string{".txt", ".wiki"}, cfg.Extensions)
	assert.False(t, cfg.DetectLanguageEnabled())
	assert.Equal(t, config.ColorNever, cfg.Color)
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	t.Setenv("XWIKIPARSE_MAX_LOOKAHEAD", "lots")

	err := LoadFromEnv(config.NewConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XWIKIPARSE_MAX_LOOKAHEAD")
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Len(t, vars, len(envMappings))
	assert.Contains(t, vars, "XWIKIPARSE_DETECT_LANGUAGE")
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.DetectLanguage = config.Bool(true)

	override := &config.Config{
		Jobs:           8,
		Ignore:         []string{"a/**"},
		DetectLanguage: config.Bool(false),
	}

	merged := MergeAll(base, override, nil)
	assert.Equal(t, 8, merged.Jobs)
	assert.Equal(t, []string{"a/**"}, merged.Ignore)
	assert.False(t, merged.DetectLanguageEnabled())
	assert.Equal(t, base.Extensions, merged.Extensions)
	assert.True(t, base.DetectLanguageEnabled(), "inputs are not modified")

	assert.Nil(t, MergeAll())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(c *config.Config)
		errors   int
		warnings int
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "negative jobs", mutate: func(c *config.Config) { c.Jobs = -1 }, errors: 1},
		{name: "bad color", mutate: func(c *config.Config) { c.Color = "rainbow" }, errors: 1},
		{name: "letter escape", mutate: func(c *config.Config) { c.Escape = "e" }, warnings: 1},
		{name: "tiny lookahead", mutate: func(c *config.Config) { c.MaxLookahead = 8 }, warnings: 1},
		{name: "negative lookahead", mutate: func(c *config.Config) { c.MaxLookahead = -8 }, errors: 1},
		{name: "extension without dot", mutate: func(c *config.Config) { c.Extensions = []string{"xwiki"} }, errors: 1},
		{
			name:     "duplicate extension",
			mutate:   func(c *config.Config) { c.Extensions = []string{".wiki", ".WIKI"} },
			warnings: 1,
		},
		{name: "bad glob", mutate: func(c *config.Config) { c.Ignore = []string{"[a"} }, errors: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tc.mutate(cfg)

			result := Validate(cfg)
			assert.Len(t, result.Errors, tc.errors, result.AllMessages())
			assert.Len(t, result.Warnings, tc.warnings, result.AllMessages())
			assert.Equal(t, tc.errors == 0, result.Valid())
			assert.Equal(t, tc.warnings > 0, result.HasWarnings())
		})
	}
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Jobs = -1

	result := ValidateWithFile(cfg, "ci.yml")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "ci.yml: jobs: jobs must be >= 0 (0 means auto)", result.Errors[0].Error())
}
