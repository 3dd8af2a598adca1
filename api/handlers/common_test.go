// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/sitesearch/config"
	"github.com/meghashyamc/sitesearch/db/kvdb"
	"github.com/meghashyamc/sitesearch/logger"
	"github.com/meghashyamc/sitesearch/services/export"
	"github.com/meghashyamc/sitesearch/services/index"
	"github.com/meghashyamc/sitesearch/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

var testFiles = map[string]string{
	"index.html":               "<html><head><title>Home</title></head><body><h1>Welcome</h1><p>Static sites need search.</p></body></html>",
	"guide/install.html":       "<h1>Install</h1><p>Download the binary and run it.</p>",
	"guide/configure.html":     "<title>Configure</title><p>Set the <b>base url</b> first.</p>",
	"guide/nested/deep.html":   "<h2>Deep page</h2><table><tr><td>cell text</td></tr></table>",
	"guide/notes.txt":          "<h1>Not indexed</h1>",
	".hidden/secret.html":      "<h1>Hidden</h1>",
	"guide/nested/empty.html":  "",
	"guide/nested/nobody.html": "<div>no zones here</div>",
}

const numOfIndexedTestFiles = 6

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	queryParams      map[string]string
	expectedStatus   int
	expectedResponse *response
}

type testServer struct {
	router     *gin.Engine
	rootDir    string
	outputPath string
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) *testServer {

	cfg, err := config.Load("test")
	assert.NoError(err, "could not load config")

	rootDir := t.TempDir()
	for relPath, content := range testFiles {
		fullPath := filepath.Join(rootDir, relPath)
		err := os.MkdirAll(filepath.Dir(fullPath), 0755)
		assert.NoError(err, "could not create test sub-directory")
		err = os.WriteFile(fullPath, []byte(content), 0644)
		assert.NoError(err, "could not write test file")
	}

	testLogger := newTestLogger()
	stateDir := t.TempDir()

	kvDB, err := kvdb.Open(testLogger, filepath.Join(stateDir, "meta.db"))
	assert.NoError(err, "could not create kv database")
	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	outputPath := filepath.Join(stateDir, "out", "jssearch.index.js")
	exporter := export.New(testLogger, outputPath, cfg.GetNamespace())
	indexService := index.New(testLogger, index.NewTokenizer(index.DefaultTokenizerOptions()), exporter, kvDB, nil)

	ctx, cancel := context.WithCancel(context.Background())
	indexService.Start(ctx, cfg.GetMaxBuildTime())

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupIndex(router, testLogger, indexService, IndexDefaultsFromConfig(cfg), validator)
	SetupArtifact(router, testLogger, indexService)

	t.Cleanup(func() {
		cancel()
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	return &testServer{router: router, rootDir: rootDir, outputPath: outputPath}
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?"
		for key, value := range queryParams {
			if endpoint[len(endpoint)-1] != '?' {
				endpoint = endpoint + "&"
			}
			endpoint = endpoint + key + "=" + value
		}
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

// waitForIndexCreation polls the status endpoint until the build finishes
// and returns the final status code.
func waitForIndexCreation(assert *require.Assertions, router *gin.Engine, requestID string) int {

	maxWaitForIndexCreation := 10 * time.Second

	for startTime := time.Now().UTC(); time.Since(startTime) < maxWaitForIndexCreation; time.Sleep(100 * time.Millisecond) {
		w := makeTestHTTPRequest(router, assert, http.MethodGet, fmt.Sprintf("/index/%s", requestID), nil, nil, nil)
		if w.Code != http.StatusAccepted {
			return w.Code
		}
	}
	assert.Fail("timed out waiting for index creation: ", requestID)
	return 0
}
