package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLoggerWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	l.Info(context.Background(), "refetch resolved", "kind", "leads")

	out := buf.String()
	assert.Contains(t, out, "refetch resolved")
	assert.Contains(t, out, "kind=leads")
}

func TestWithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	child := l.With("component", "cache")
	child.Warn(context.Background(), "entry stale")

	assert.Contains(t, buf.String(), "component=cache")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	l := NewSlogLogger(slog.New(h))

	l.Debug(context.Background(), "suppressed")
	l.Info(context.Background(), "also suppressed")
	l.Error(context.Background(), "kept")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "kept")
}

func TestNopLoggerIsSilentAndChainable(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		l.With("k", "v").Debug(context.Background(), "nothing")
		l.Error(context.Background(), "nothing")
	})
}
