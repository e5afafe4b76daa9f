package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetLevel(LevelInfo)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())
	assert.Equal(t, LevelDebug, GetLevel())

	SetVerbose(false)
	assert.False(t, IsVerbose())
	assert.Equal(t, LevelInfo, GetLevel())
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")

	assert.Zero(t, buf.Len())
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Section("Hidden")
	assert.Zero(t, buf.Len())

	SetVerbose(true)
	Section("Test Section")
	assert.Equal(t, "\n=== Test Section ===\n", buf.String())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		log      func()
		expected string
	}{
		{name: "info at info", level: LevelInfo, log: func() { Info("info message %d", 42) }, expected: "[INFO] info message 42\n"},
		{name: "warn at info", level: LevelInfo, log: func() { Warn("warning message") }, expected: "[WARN] warning message\n"},
		{name: "error at warn", level: LevelWarn, log: func() { Error("stage %s failed", "generate") }, expected: "[ERROR] stage generate failed\n"},
		{name: "info suppressed at warn", level: LevelWarn, log: func() { Info("quiet") }, expected: ""},
		{name: "warn suppressed at error", level: LevelError, log: func() { Warn("quiet") }, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer reset()

			var buf bytes.Buffer
			SetOutput(&buf)
			SetLevel(tt.level)

			tt.log()

			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		ok       bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"loud", LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.input)
		assert.Equal(t, tt.expected, got, tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}
