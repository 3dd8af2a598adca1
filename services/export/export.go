// Package export writes a built search index as a JavaScript file that
// assigns the index, the document catalog and the query tokenizer to a
// namespace object in the browser.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/meghashyamc/sitesearch/logger"
	"github.com/meghashyamc/sitesearch/services/index"
)

const DefaultNamespace = "jssearch"

type Writer struct {
	logger     logger.Logger
	outputPath string
	namespace  string
}

func New(logger logger.Logger, outputPath string, namespace string) *Writer {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Writer{
		logger:     logger,
		outputPath: outputPath,
		namespace:  namespace,
	}
}

// Export renders the artifact and replaces the output file atomically, so a
// reader never sees a half-written index.
func (w *Writer) Export(idx *index.Index, tokenizer *index.Tokenizer) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, w.namespace, idx, tokenizer); err != nil {
		return "", err
	}

	outputDir := filepath.Dir(w.outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		w.logger.Error("failed to create output directory", "path", outputDir, "err", err.Error())
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(outputDir, ".sitesearch-*.js")
	if err != nil {
		w.logger.Error("failed to create temporary artifact", "dir", outputDir, "err", err.Error())
		return "", fmt.Errorf("failed to create temporary artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		w.logger.Error("failed to write artifact", "path", tmp.Name(), "err", err.Error())
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("failed to set artifact permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.outputPath); err != nil {
		w.logger.Error("failed to move artifact into place", "path", w.outputPath, "err", err.Error())
		return "", fmt.Errorf("failed to move artifact into place: %w", err)
	}

	return w.outputPath, nil
}

// Render writes the artifact to out. Terms are written in lexicographic
// order and postings in ordinal order, so identical input gives identical
// output.
func Render(out io.Writer, namespace string, idx *index.Index, tokenizer *index.Tokenizer) error {
	// encoding/json sorts map keys
	indexJSON, err := json.Marshal(idx.Terms())
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	documents := idx.Documents()
	if documents == nil {
		documents = []index.Document{}
	}
	filesJSON, err := json.Marshal(documents)
	if err != nil {
		return fmt.Errorf("failed to encode files: %w", err)
	}

	tokenizeString, err := tokenizer.JavaScript()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(out, "%s.index = %s;\n%s.files = %s;\n%s.tokenizeString = %s;\n",
		namespace, indexJSON,
		namespace, filesJSON,
		namespace, tokenizeString,
	); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	return nil
}
