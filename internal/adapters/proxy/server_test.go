package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestServer(t *testing.T, upstream http.HandlerFunc) *Server {
	t.Helper()

	upstreamServer := httptest.NewServer(upstream)
	t.Cleanup(upstreamServer.Close)

	s := NewServer(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "service-token"}), testLogger())
	s.UpstreamBase = upstreamServer.URL
	return s
}

func generateBody(t *testing.T) *strings.Reader {
	t.Helper()

	return strings.NewReader(`{
		"project": "demo-project",
		"region": "us-central1",
		"publisher": "publishers/google",
		"model": "gemini-2.0-flash-lite-001",
		"rpc": "generateContent",
		"prompt": "hello",
		"generationConfig": {"temperature": 0.5, "maxOutputTokens": 256, "topP": 0.9}
	}`)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	s := NewServer(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "service-token"}), testLogger())

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGenerateForwardsToUpstream(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody map[string]any

	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"output": "generated reply"}]}`))
	})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", generateBody(t)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "generated reply", resp["text"])

	assert.Equal(t,
		"/projects/demo-project/locations/us-central1/publishers/google/models/gemini-2.0-flash-lite-001:generateContent",
		gotPath)
	assert.Equal(t, "Bearer service-token", gotAuth)

	contents, ok := gotBody["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)

	config, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.5, config["temperature"], 0.001)
}

func TestGenerateUpstreamErrorBecomesProxyError(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "permission denied", http.StatusForbidden)
	})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", generateBody(t)))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Vertex AI 403")
	assert.Contains(t, resp["error"], "permission denied")
}

func TestGenerateEmptyCandidatesYieldsEmptyText(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", generateBody(t)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp["text"])
}

func TestGenerateMalformedBodyRejected(t *testing.T) {
	t.Parallel()

	s := NewServer(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "service-token"}), testLogger())

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
