package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", FormatText)
	require.NoError(t, err)

	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "shown", "points", 10)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "points=10")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", FormatJSON)
	require.NoError(t, err)

	l.Info(context.Background(), "login ok", "identity", "u1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "login ok", rec["msg"])
	assert.Equal(t, "u1", rec["identity"])
}

func TestNew_ZapFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "debug", FormatZap)
	require.NoError(t, err)

	l.With("module", "gate").Debug(context.Background(), "charged", "points", 50)

	out := buf.String()
	assert.True(t, strings.Contains(out, `"msg":"charged"`), out)
	assert.Contains(t, out, `"module":"gate"`)
	assert.Contains(t, out, `"points":50`)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, "loud", FormatZap)
	require.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	ctx := context.TODO()
	l.Debug(ctx, "x")
	l.Info(ctx, "x")
	l.With("a", 1).Warn(ctx, "x")
	l.Error(ctx, "x")
}
