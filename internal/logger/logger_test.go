package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "prod", "info")

	ctx := WithUserID(WithRequestID(context.Background(), "rid"), "uid")
	log.With("component", "test").InfoContext(ctx, "hello")
	log.DebugContext(ctx, "dropped")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "rid", rec["request_id"])
	assert.Equal(t, "uid", rec["user_id"])
	assert.Equal(t, "test", rec["component"])
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "dev", "")
	log.Debug("visible in dev")
	assert.Contains(t, buf.String(), "visible in dev")
	assert.Equal(t, "rid", RequestID(WithRequestID(context.Background(), "rid")))
	assert.Empty(t, RequestID(context.Background()))
}
