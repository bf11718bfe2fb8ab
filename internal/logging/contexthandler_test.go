package logging_test

import (
	"bytes"
	"context"
	"github.com/myrjola/studyassistant/internal/logging"
	"github.com/stretchr/testify/require"
	"log/slog"
	"testing"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&buf, slog.LevelDebug, false).With("component", "test")

	ctx := logging.WithAttrs(context.Background(), slog.String("request_id", "abc"))
	sibling := logging.WithAttrs(ctx, slog.String("subject", "Biology"))
	other := logging.WithAttrs(ctx, slog.String("topic", "Mitosis"))

	logger.LogAttrs(sibling, slog.LevelInfo, "first")
	logger.LogAttrs(other, slog.LevelInfo, "second")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	require.Contains(t, string(lines[0]), "component=test")
	require.Contains(t, string(lines[0]), "request_id=abc")
	require.Contains(t, string(lines[0]), "subject=Biology")
	require.NotContains(t, string(lines[1]), "subject=Biology")
	require.Contains(t, string(lines[1]), "topic=Mitosis")
}
