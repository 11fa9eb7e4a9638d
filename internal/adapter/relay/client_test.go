package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"CivicPortal/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(&config.ChatConfig{BaseURL: baseURL, Timeout: 5}, logger)
}

func TestClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req relayRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "こんにちは", req.Message)
		assert.Equal(t, "PROMPT", req.SystemPrompt)
		_, _ = w.Write([]byte(`{"message":"どういたしまして"}`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).Complete(context.Background(), "PROMPT", "こんにちは")
	require.NoError(t, err)
	assert.Equal(t, "どういたしまして", reply)
}

func TestClient_CompleteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"upstream failed"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), "PROMPT", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream failed")
}
