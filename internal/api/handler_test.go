package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{"```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, true},
		{"no json here", "", false},
		{"} backwards {", "", false},
	}
	for _, tt := range tests {
		got, ok := extractJSONObject(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseLLMResult(t *testing.T) {
	result, source := parseLLMResult(`Here you go: {"title": "Tofu"}`)
	assert.Equal(t, SourceLLM, source)
	assert.Equal(t, map[string]any{"title": "Tofu"}, result)

	result, source = parseLLMResult(`{"title": broken}`)
	assert.Equal(t, SourceLLMRaw, source)
	assert.Equal(t, gin.H{"raw": `{"title": broken}`}, result)
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)), Recovery(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	for _, path := range []string{"/ok", "/missing", "/panic"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 1, logs.FilterMessage("request").Len())
	assert.Equal(t, 1, logs.FilterMessage("client error").Len())
	assert.Equal(t, 1, logs.FilterMessage("server error").Len())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())

	entry := logs.FilterMessage("request").All()[0]
	assert.NotEmpty(t, entry.ContextMap()["request_id"])
	assert.Equal(t, "/ok", entry.ContextMap()["path"])
}
