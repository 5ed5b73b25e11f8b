package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtx_AttrsReachRecord(t *testing.T) {
	var (
		buf bytes.Buffer
		l   = New(&buf, "json", false)
		ctx = Ctx(context.Background(), slog.String("entry_id", "123"))
	)
	ctx = Ctx(ctx, slog.String("user_id", "u1"))

	l.InfoContext(ctx, "created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "created", line["msg"])
	assert.Equal(t, "123", line["entry_id"])
	assert.Equal(t, "u1", line["user_id"])
}

func TestCtx_DoesNotLeakBetweenBranches(t *testing.T) {
	root := Ctx(context.Background(), slog.String("a", "1"))
	left := Ctx(root, slog.String("b", "2"))
	right := Ctx(root, slog.String("c", "3"))

	assert.Len(t, left.Value(ctxKey{}).([]slog.Attr), 2)
	assert.Len(t, right.Value(ctxKey{}).([]slog.Attr), 2)
	assert.Equal(t, "c", right.Value(ctxKey{}).([]slog.Attr)[1].Key)
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer

	New(&buf, "text", false).Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, "text", true).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
