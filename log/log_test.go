package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: int(slog.LevelWarn)}, &buf)

	l.InfoContext(context.Background(), "dropped")
	l.WarnContext(context.Background(), "kept", slog.String("err", "boom"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "boom", rec["err"])
	assert.Equal(t, "WARN", rec["level"])
}
