package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")

	log.Errorf(errors.New("boom"), "failed to grant product %d", 42)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "failed to grant product 42", record["msg"])
	assert.Equal(t, "boom", record["error"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Infof("skipped")
	log.Debugf("skipped")
	assert.Zero(t, buf.Len())

	log.Warnf("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, parseLevel("info"), parseLevel("verbose"))
	assert.Equal(t, parseLevel("WARNING"), parseLevel("warn"))
}
