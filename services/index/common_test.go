// Common test helpers
package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/meghashyamc/sitesearch/db/kvdb"
	"github.com/meghashyamc/sitesearch/logger"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func writeTestFiles(t *testing.T, assert *require.Assertions, files map[string]string) string {
	rootDir := t.TempDir()
	for relPath, content := range files {
		fullPath := filepath.Join(rootDir, relPath)
		err := os.MkdirAll(filepath.Dir(fullPath), 0755)
		assert.NoError(err, "could not create test sub-directory")
		err = os.WriteFile(fullPath, []byte(content), 0644)
		assert.NoError(err, "could not write test file")
	}
	return rootDir
}

// memoryStore is a MetadataStore kept in memory.
type memoryStore struct {
	mu     sync.Mutex
	values map[string]map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]map[string]string)}
}

func (m *memoryStore) Set(bucket string, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[bucket] == nil {
		m.values[bucket] = make(map[string]string)
	}
	m.values[bucket][key] = value
	return nil
}

func (m *memoryStore) Get(bucket string, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[bucket][key]
	if !ok {
		return "", &kvdb.NotFoundError{Bucket: bucket, Key: key}
	}
	return value, nil
}

func (m *memoryStore) Close() error {
	return nil
}

// recordingExporter remembers the last index it was asked to export.
type recordingExporter struct {
	mu        sync.Mutex
	index     *Index
	exports   int
	err       error
	outputDir string
}

func (e *recordingExporter) Export(idx *Index, _ *Tokenizer) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return "", e.err
	}
	e.index = idx
	e.exports++
	return filepath.Join(e.outputDir, "jssearch.index.js"), nil
}

func (e *recordingExporter) exportCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}

func (e *recordingExporter) lastIndex() *Index {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

func terms(tokens []TokenOccurrence) []string {
	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		result = append(result, token.Term)
	}
	return result
}
