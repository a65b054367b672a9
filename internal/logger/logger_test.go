package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, c Config, f func()) string {
	t.Helper()

	var buf bytes.Buffer
	c.Output = &buf
	Init(&c)
	t.Cleanup(func() { Init(&Config{Level: "info", Format: FormatText}) })

	f()
	return buf.String()
}

func TestLogger_TextFormat(t *testing.T) {
	out := capture(t, Config{Level: "debug", Format: FormatText, Component: "test"}, func() {
		Info("booking confirmed", "booking_id", "b-1")
	})

	assert.Contains(t, out, "booking confirmed")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "booking_id=b-1")
}

func TestLogger_JSONFormat(t *testing.T) {
	out := capture(t, Config{Level: "info", Format: FormatJSON, Component: "json_test"}, func() {
		Info("json log", "foo", "bar")
	})

	assert.Contains(t, out, `"msg":"json log"`)
	assert.Contains(t, out, `"component":"json_test"`)
	assert.Contains(t, out, `"foo":"bar"`)
}

func TestLogger_LevelFilter(t *testing.T) {
	out := capture(t, Config{Level: "error", Format: FormatText}, func() {
		Info("should not appear")
		Error("should appear")
	})

	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
}

func TestLogger_WithAddsFields(t *testing.T) {
	out := capture(t, Config{Level: "debug", Format: FormatText}, func() {
		With("req_id", "123").Info("processing request")
	})

	assert.Contains(t, out, "req_id=123")
}
