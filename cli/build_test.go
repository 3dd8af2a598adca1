package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var buildTestFiles = map[string]string{
	"index.html":          "<title>Home</title><h1>Welcome</h1><p>The start of the site</p>",
	"guide/install.html":  "<h1>Install guide</h1><p>Download it</p>",
	"drafts/unready.html": "<h1>Draft</h1>",
}

func writeBuildTestFiles(t *testing.T, assert *require.Assertions) string {
	rootDir := t.TempDir()
	for relPath, content := range buildTestFiles {
		fullPath := filepath.Join(rootDir, relPath)
		assert.NoError(os.MkdirAll(filepath.Dir(fullPath), 0755))
		assert.NoError(os.WriteFile(fullPath, []byte(content), 0644))
	}
	return rootDir
}

func executeCommand(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	assert := require.New(t)
	rootDir := writeBuildTestFiles(t, assert)
	outputPath := filepath.Join(t.TempDir(), "site", "search.js")

	output, err := executeCommand("--env", "test", "build", rootDir, "--out", outputPath, "--base-url", "/docs/", "--namespace", "site")
	assert.NoError(err)
	assert.Equal(fmt.Sprintf("indexed 3 documents, %d terms into %s\n", countTerms(assert, outputPath), outputPath), output)

	artifact, err := os.ReadFile(outputPath)
	assert.NoError(err)
	assert.True(strings.HasPrefix(string(artifact), "site.index = {"))
	assert.Contains(string(artifact), `{"url":"/docs/guide/install.html","title":"Install guide"}`)
	assert.Contains(string(artifact), "var filterStopWords = true;")
	assert.NotContains(string(artifact), `"the":`)
}

func TestBuildCommandFlags(t *testing.T) {
	assert := require.New(t)
	rootDir := writeBuildTestFiles(t, assert)
	outputPath := filepath.Join(t.TempDir(), "search.js")

	_, err := executeCommand("--env", "test", "build", rootDir, "-o", outputPath, "--keep-stop-words", "--exclude", filepath.Join(rootDir, "drafts"))
	assert.NoError(err)

	artifact, err := os.ReadFile(outputPath)
	assert.NoError(err)
	assert.Contains(string(artifact), "var filterStopWords = false;")
	assert.Contains(string(artifact), `"the":`)
	assert.NotContains(string(artifact), "unready.html")
	// the configured base url applies when no flag overrides it
	assert.Contains(string(artifact), `"url":"https://docs.example.com/index.html"`)
}

func TestBuildCommandWithoutDirectory(t *testing.T) {
	assert := require.New(t)
	t.Setenv("ROOT_PATH", "")

	_, err := executeCommand("--env", "test", "build")
	assert.ErrorContains(err, "no directory given")
}

func TestBuildCommandMissingDirectory(t *testing.T) {
	assert := require.New(t)

	_, err := executeCommand("--env", "test", "build", filepath.Join(t.TempDir(), "missing"), "--out", filepath.Join(t.TempDir(), "search.js"))
	assert.Error(err)
}

// countTerms counts the entries of the index object in an artifact.
func countTerms(assert *require.Assertions, outputPath string) int {
	artifact, err := os.ReadFile(outputPath)
	assert.NoError(err)
	indexLine := strings.SplitN(string(artifact), "\n", 2)[0]
	return strings.Count(indexLine, `":[`)
}
