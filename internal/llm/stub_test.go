package llm

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStubClientKeepsAllWords(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewStubClient(logger)

	script := "consistency beats   talent\nevery single day"
	out, err := client.Enhance(context.Background(), script)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "Stop scrolling."))
	require.Contains(t, out, "consistency beats talent every single day")
}

func TestStubClientRejectsBlank(t *testing.T) {
	client := NewStubClient(slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Enhance(context.Background(), "   ")
	require.Error(t, err)
}
