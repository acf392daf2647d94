package gemini

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerateContentSendsRequest(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello "},{"text":"there"}]}}]}`))
	}))
	defer srv.Close()

	client := NewClient(testLogger(), "secret", &Options{BaseURL: srv.URL + "/"})
	resp, err := client.GenerateContent(context.Background(), "test-model", Request{Contents: TextContent("hi")})
	require.NoError(t, err)

	require.Equal(t, "hi", got.Contents[0].Parts[0].Text)
	require.Equal(t, "hello there", resp.Text())
	part, ok := resp.FirstPart()
	require.True(t, ok)
	require.Equal(t, "hello ", part.Text)
}

func TestGenerateContentHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, strings.Repeat("x", 600), http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(testLogger(), "k", &Options{BaseURL: srv.URL})
	_, err := client.GenerateContent(context.Background(), "m", Request{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=429")
	require.Contains(t, err.Error(), "…")
}

func TestGenerateContentAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad voice","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	client := NewClient(testLogger(), "k", &Options{BaseURL: srv.URL})
	_, err := client.GenerateContent(context.Background(), "m", Request{})
	require.ErrorContains(t, err, "bad voice (INVALID_ARGUMENT)")
}

func TestGenerateContentMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(testLogger(), "k", &Options{BaseURL: srv.URL})
	_, err := client.GenerateContent(context.Background(), "m", Request{})
	require.ErrorContains(t, err, "decode response")
}

func TestResponseHelpersOnEmpty(t *testing.T) {
	var resp Response
	_, ok := resp.FirstPart()
	require.False(t, ok)
	require.Empty(t, resp.Text())
}
