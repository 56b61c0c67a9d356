package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/bundler/internal/bundle"
)

func TestBundleCommandOutput(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"animals/dog.json":   `{"name": "Dog"}`,
		"animals/cat.json":   `{"name": "Cat", "lives": 9}`,
		"plants/fern.json":   `"green"`,
		"empty/readme.txt":   "not an item",
		".git/config.json":   `{}`,
		"stray-at-root.json": `{}`,
	})

	stdout, stderr, err := execute(t, "--root", root)
	require.NoError(t, err)

	assert.Equal(t, "  animals.json (2 items)\n  plants.json (1 items)\n\n  all.json (has 3 total items across 2 categories)\n", stdout)
	assert.Empty(t, stderr)

	dist := filepath.Join(root, ".dist")
	assert.Equal(t, "{\n  \"cat\": {\n    \"name\": \"Cat\",\n    \"lives\": 9\n  },\n  \"dog\": {\n    \"name\": \"Dog\"\n  }\n}",
		readFile(t, filepath.Join(dist, "animals.json")))
	assert.Equal(t, "{\n  \"fern\": \"green\"\n}", readFile(t, filepath.Join(dist, "plants.json")))
	assert.NoFileExists(t, filepath.Join(dist, "empty.json"))
	assert.FileExists(t, filepath.Join(dist, "all.json"))
}

func TestBundleCommandOutFlag(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "public")
	writeTree(t, root, map[string]string{"a/x.json": `1`})

	_, _, err := execute(t, "--root", root, "--out", out)
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"a\": {\n    \"x\": 1\n  }\n}", readFile(t, filepath.Join(out, "all.json")))
	assert.NoDirExists(t, filepath.Join(root, ".dist"))
}

func TestBundleCommandConfigFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".bundler.yaml":  "output_dir: build\nall_file: everything.json\nexclude_prefixes: [\".\", \"_\"]\n",
		"a/x.json":       `1`,
		"_drafts/y.json": `2`,
	})

	stdout, _, err := execute(t, "--root", root)
	require.NoError(t, err)

	assert.Contains(t, stdout, "everything.json (has 1 total items across 1 categories)")
	assert.Equal(t, "{\n  \"a\": {\n    \"x\": 1\n  }\n}", readFile(t, filepath.Join(root, "build", "everything.json")))
}

func TestBundleCommandExplicitConfig(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	writeTree(t, root, map[string]string{"a/x.json": `1`})
	writeTree(t, filepath.Dir(cfgPath), map[string]string{"custom.yaml": "output_dir: out\n"})

	_, _, err := execute(t, "--root", root, "--config", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "out", "all.json"))
}

func TestBundleCommandDebugLogging(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/x.json": `1`})

	_, stderr, err := execute(t, "--root", root, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[DEBUG] run ")
}

func TestBundleCommandInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--root", t.TempDir(), "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestBundleCommandMalformedJSON(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/good.json": `{}`,
		"b/bad.json":  `{"x": }`,
	})

	stdout, _, err := execute(t, "--root", root)
	require.Error(t, err)

	var malformed *bundle.MalformedJSONError
	require.True(t, errors.As(err, &malformed), "error = %v", err)
	assert.Equal(t, filepath.Join(root, "b", "bad.json"), malformed.Path)
	assert.Equal(t, "  a.json (1 items)\n", stdout)
	assert.FileExists(t, filepath.Join(root, ".dist", "a.json"))
	assert.NoFileExists(t, filepath.Join(root, ".dist", "all.json"))
}

func TestBundleCommandIdempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/x.json": `{"b": 1, "a": [1, 2]}`,
		"b/y.json": `"héllo"`,
	})

	_, _, err := execute(t, "--root", root)
	require.NoError(t, err)
	first := readFile(t, filepath.Join(root, ".dist", "all.json"))

	_, _, err = execute(t, "--root", root)
	require.NoError(t, err)
	assert.Equal(t, first, readFile(t, filepath.Join(root, ".dist", "all.json")))
}
