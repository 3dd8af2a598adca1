package index

import (
	"io"
	"os"
	"strings"
)

var lineEndingRemover = strings.NewReplacer("\r\n", "", "\n", "")

func readHTMLFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	return normalizeContents(content), nil
}

// normalizeContents drops invalid UTF-8 bytes and removes line endings so
// that tags spanning several lines still match the single-line zone patterns.
func normalizeContents(raw []byte) string {
	return lineEndingRemover.Replace(strings.ToValidUTF8(string(raw), ""))
}
