package index

import (
	"path/filepath"
	"regexp"
	"strings"
)

// NoTitle is the title given to documents with neither an h1 nor a title element.
const NoTitle = "No title"

var (
	firstHeadingPattern = regexp.MustCompile(`<h1(?:\s[^>]*)?>(.*?)</h1\s*>`)
	titlePattern        = regexp.MustCompile(`<title(?:\s[^>]*)?>(.*?)</title\s*>`)
)

// Document is the display record for one indexed file. Its position in the
// Index catalog is its ordinal.
type Document struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func Catalog(filePath string, contents string, basePath string, baseURL string) Document {
	return Document{
		URL:   documentURL(filePath, basePath, baseURL),
		Title: documentTitle(contents),
	}
}

// documentURL strips basePath from filePath, percent-encodes spaces and
// appends the remainder to baseURL.
func documentURL(filePath string, basePath string, baseURL string) string {
	relative := strings.TrimPrefix(filepath.ToSlash(filePath), filepath.ToSlash(basePath))
	if strings.HasSuffix(baseURL, "/") {
		relative = strings.TrimPrefix(relative, "/")
	}

	return baseURL + strings.ReplaceAll(relative, " ", "%20")
}

func documentTitle(contents string) string {
	// an h1 that renders to nothing does not count as a title; try the next source
	for _, pattern := range []*regexp.Regexp{firstHeadingPattern, titlePattern} {
		match := pattern.FindStringSubmatch(contents)
		if match == nil {
			continue
		}
		if title := RenderText(match[1]); title != "" {
			return title
		}
	}

	return NoTitle
}
