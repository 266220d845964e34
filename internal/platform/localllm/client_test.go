package localllm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateText(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Response{Model: got.Model, Response: "Use less salt.", Done: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0.3)
	answer, err := c.GenerateText(context.Background(), "How salty?", "You are a chef.")
	require.NoError(t, err)
	assert.Equal(t, "Use less salt.", answer)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, "How salty?", got.Prompt)
	assert.Equal(t, "You are a chef.", got.System)
	assert.False(t, got.Stream)
	assert.Equal(t, 0.3, got.Options.Temperature)
}

func TestGenerateText_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "m", 0).GenerateText(context.Background(), "q", "")
	assert.Error(t, err)
}

func TestGenerateText_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"  ","done":true}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "m", 0).GenerateText(context.Background(), "q", "")
	assert.Error(t, err)
}
