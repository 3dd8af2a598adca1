package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var discoveryTestFiles = map[string]string{
	"index.html":              "<h1>Home</h1>",
	"about.html":              "<h1>About</h1>",
	"notes.txt":               "not html",
	"guide/intro.html":        "<h1>Intro</h1>",
	"guide/page.XHTML":        "<h1>Upper</h1>",
	".hidden/secret.html":     "<h1>Secret</h1>",
	".draft.html":             "<h1>Draft</h1>",
	"vendor/lib/readme.html":  "<h1>Vendor</h1>",
	"guide/deep/nested.html":  "<h1>Nested</h1>",
	"guide/deep/image.png":    "binary",
	"guide/deep/table.htmlx":  "not matched",
	"guide/deep/space d.html": "<h1>Space</h1>",
}

func TestDiscoverFiles(t *testing.T) {
	assert := require.New(t)
	rootDir := writeTestFiles(t, assert, discoveryTestFiles)

	files, err := discoverFiles(rootDir, "html", []string{filepath.Join(rootDir, "vendor")})
	assert.NoError(err)

	expected := []string{
		filepath.Join(rootDir, "about.html"),
		filepath.Join(rootDir, "guide/deep/nested.html"),
		filepath.Join(rootDir, "guide/deep/space d.html"),
		filepath.Join(rootDir, "guide/intro.html"),
		filepath.Join(rootDir, "guide/page.XHTML"),
		filepath.Join(rootDir, "index.html"),
	}
	assert.Equal(expected, files, "files should be found in lexical walk order")
}

func TestDiscoverFilesMissingRoot(t *testing.T) {
	assert := require.New(t)

	_, err := discoverFiles(filepath.Join(t.TempDir(), "missing"), "html", nil)
	assert.Error(err)
}
