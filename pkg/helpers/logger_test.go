package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerStampsAppAndEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	logger := NewLogger("spaceboard", "production")
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	LogError(logger, "publish failed", errors.New("boom"), logrus.Fields{"queue": "emails"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "spaceboard", entry["app"])
	assert.Equal(t, "production", entry["env"])
	assert.Equal(t, "emails", entry["queue"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "publish failed", entry["msg"])
}
