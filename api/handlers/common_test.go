// Common test helpers
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/catalogsearch/config"
	"github.com/meghashyamc/catalogsearch/db/kvdb"
	"github.com/meghashyamc/catalogsearch/db/searchdb"
	"github.com/meghashyamc/catalogsearch/logger"
	"github.com/meghashyamc/catalogsearch/model"
	"github.com/meghashyamc/catalogsearch/services/catalog"
	"github.com/meghashyamc/catalogsearch/services/search"
	"github.com/meghashyamc/catalogsearch/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

var testEntities = []any{
	map[string]any{
		"guid":                "t-sales",
		"typeName":            "hive_table",
		"status":              "ACTIVE",
		"displayText":         "sales",
		"classificationNames": []string{"PII"},
		"attributes": map[string]any{
			"owner":       "finance",
			"description": "quarterly revenue",
			"rowCount":    42,
		},
	},
	map[string]any{
		"guid":        "t-orders",
		"typeName":    "hive_table",
		"status":      "ACTIVE",
		"displayText": "orders",
		"labels":      []string{"ops"},
		"attributes": map[string]any{
			"owner": "ops",
		},
	},
}

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	queryParams      map[string]string
	expectedStatus   int
	expectedResponse map[string]any
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) *gin.Engine {

	t.Setenv("STORAGE_PATH", t.TempDir())

	cfg, err := config.Load("test")
	assert.NoError(err, "could not load config")

	enumPolicy, err := model.ParseEnumPolicy(cfg.GetEnumPolicy())
	assert.NoError(err, "could not parse enum policy")

	testLogger := newTestLogger()

	searchDB, err := searchdb.New(testLogger, cfg)
	assert.NoError(err, "could not create search database")

	kvDB, err := kvdb.New(testLogger, cfg)
	assert.NoError(err, "could not create kv database")

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	catalogService := catalog.New(testLogger, searchDB, kvDB)
	searchService := search.New(testLogger, searchDB, catalogService, kvDB, enumPolicy, cfg.GetMaxResults())

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupEntities(router, testLogger, catalogService, validator)
	SetupSearch(router, testLogger, searchService, validator)

	t.Cleanup(func() {
		assert.NoError(searchDB.Close(), "could not close search database")
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	return router
}

func registerTestEntities(router *gin.Engine, assert *require.Assertions) {
	w := makeTestHTTPRequest(router, assert, http.MethodPost, "/entities", defaultTestRequestHeaders, map[string]any{"entities": testEntities}, nil)
	assert.Equal(http.StatusNoContent, w.Code, "registering test entities should succeed, got %s", w.Body.String())
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]any, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		values := url.Values{}
		for key, value := range queryParams {
			values.Set(key, value)
		}
		endpoint = endpoint + "?" + values.Encode()
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

func decodeResponse(assert *require.Assertions, w *httptest.ResponseRecorder) map[string]any {
	var responseMap map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &responseMap)
	assert.NoError(err, "could not unmarshal response %s", w.Body.String())
	return responseMap
}
