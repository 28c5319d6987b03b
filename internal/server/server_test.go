package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/config"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/logger"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/service"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/keywords"
)

const catText = "The cat sat on the mat. The cat was happy. A happy cat purrs."

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	svc, err := service.New(cfg, nil)
	require.NoError(t, err)
	return New(cfg, svc, logger.NewLogger(logger.TestConfig()))
}

func do(t *testing.T, s *Server, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type analyzeResponse struct {
	Words        []keywords.Keyword `json:"words"`
	ArticleTitle string             `json:"article_title"`
	WordCount    int                `json:"word_count"`
	Strategy     string             `json:"strategy"`
}

func TestInfoAndHealth(t *testing.T) {
	s := newServer(t, nil)

	t.Run("Should describe the API", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "3D Word Cloud API", body["message"])
		assert.Equal(t, Version, body["version"])
	})

	t.Run("Should report healthy", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy","message":"API is running"}`, rec.Body.String())
	})
}

func TestAnalyzeEndpoint(t *testing.T) {
	t.Run("Should return weighted keywords", func(t *testing.T) {
		s := newServer(t, nil)
		rec := do(t, s, http.MethodPost, "/analyze",
			`{"text":"`+catText+`","title":"Cats","max_words":2}`, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp analyzeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Cats", resp.ArticleTitle)
		assert.Equal(t, 14, resp.WordCount)
		assert.Equal(t, "tfidf", resp.Strategy)
		require.Len(t, resp.Words, 2)
		assert.Equal(t, keywords.Keyword{Term: "happy", Weight: 1, Frequency: 2}, resp.Words[0])
		assert.Equal(t, "cat", resp.Words[1].Term)
		assert.NotContains(t, rec.Body.String(), "source")
	})

	t.Run("Should default title and max words", func(t *testing.T) {
		s := newServer(t, func(c *config.Config) { c.Analysis.MaxTerms = 1 })
		rec := do(t, s, http.MethodPost, "/analyze", `{"text":"Quick brown fox."}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp analyzeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, untitled, resp.ArticleTitle)
		assert.Equal(t, "frequency", resp.Strategy)
		assert.Len(t, resp.Words, 1)
	})

	tests := []struct {
		name   string
		body   string
		mutate func(*config.Config)
		status int
		detail string
	}{
		{
			name:   "Should reject malformed JSON",
			body:   `{"text":`,
			status: http.StatusBadRequest,
			detail: "Invalid request body",
		},
		{
			name:   "Should reject out of range max_words",
			body:   `{"text":"Quick brown fox.","max_words":501}`,
			status: http.StatusBadRequest,
			detail: "Invalid request body",
		},
		{
			name:   "Should reject negative max_words",
			body:   `{"text":"Quick brown fox.","max_words":-1}`,
			status: http.StatusBadRequest,
			detail: "Invalid request body",
		},
		{
			name:   "Should reject empty text",
			body:   `{"text":"  "}`,
			status: http.StatusBadRequest,
			detail: "no analyzable content",
		},
		{
			name:   "Should return 422 for stop words only",
			body:   `{"text":"the a an is of"}`,
			status: http.StatusUnprocessableEntity,
			detail: "meaningful content",
		},
		{
			name:   "Should return 413 for text over the limit",
			body:   `{"text":"` + catText + `"}`,
			mutate: func(c *config.Config) { c.Analysis.MaxInputBytes = 10 },
			status: http.StatusRequestEntityTooLarge,
			detail: "maximum accepted size",
		},
		{
			name:   "Should return 413 for oversized body",
			body:   `{"text":"` + strings.Repeat("word ", 20000) + `"}`,
			mutate: func(c *config.Config) { c.Analysis.MaxInputBytes = 1 },
			status: http.StatusRequestEntityTooLarge,
			detail: "too large",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, tt.mutate)
			rec := do(t, s, http.MethodPost, "/analyze", tt.body, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Detail, tt.detail)
		})
	}
}

func TestRequestID(t *testing.T) {
	s := newServer(t, nil)

	t.Run("Should generate request ID", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/health", "", nil)
		assert.Len(t, rec.Header().Get(requestIDHeader), 36)
	})

	t.Run("Should echo client request ID", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/health", "", http.Header{requestIDHeader: {"abc-123"}})
		assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	})

	t.Run("Should replace overlong request ID", func(t *testing.T) {
		long := strings.Repeat("x", maxRequestIDLen+1)
		rec := do(t, s, http.MethodGet, "/health", "", http.Header{requestIDHeader: {long}})
		assert.NotEqual(t, long, rec.Header().Get(requestIDHeader))
	})
}

func TestCORS(t *testing.T) {
	t.Run("Should allow configured origin", func(t *testing.T) {
		s := newServer(t, nil)
		rec := do(t, s, http.MethodGet, "/health", "", http.Header{"Origin": {"http://localhost:5173"}})
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("Should not allow unknown origin", func(t *testing.T) {
		s := newServer(t, nil)
		rec := do(t, s, http.MethodGet, "/health", "", http.Header{"Origin": {"https://evil.example"}})
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Should answer preflight", func(t *testing.T) {
		s := newServer(t, nil)
		rec := do(t, s, http.MethodOptions, "/analyze", "", http.Header{"Origin": {"http://localhost:3000"}})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("Should allow any origin with wildcard", func(t *testing.T) {
		s := newServer(t, func(c *config.Config) {
			c.Server.CORS = config.CORSConfig{AllowedOrigins: []string{"*"}}
		})
		rec := do(t, s, http.MethodGet, "/health", "", http.Header{"Origin": {"https://any.example"}})
		assert.Equal(t, "https://any.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t, nil)
	rec := do(t, s, http.MethodPost, "/analyze", `{"text":"`+catText+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wordcloud_analyses_total{outcome="ok",strategy="tfidf"} 1`)
}

func TestServe(t *testing.T) {
	t.Run("Should serve until context is canceled", func(t *testing.T) {
		s := newServer(t, nil)
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		done := make(chan error, 1)
		go func() { done <- s.Serve(ctx, ln) }()

		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not shut down")
		}
	})

	t.Run("Should report listen errors", func(t *testing.T) {
		s := newServer(t, func(c *config.Config) { c.Server.Host = "256.0.0.1" })
		err := s.Run(t.Context())
		require.Error(t, err)
	})

	t.Run("Should join host and port", func(t *testing.T) {
		s := newServer(t, func(c *config.Config) {
			c.Server.Host = "127.0.0.1"
			c.Server.Port = 9000
		})
		assert.Equal(t, "127.0.0.1:9000", s.Addr())
	})
}
