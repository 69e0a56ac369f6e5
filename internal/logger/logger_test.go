package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if buf.String() != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Info("info message")

	if buf.Len() > 0 {
		t.Error("expected no output when verbose is disabled")
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Test Section")

	if buf.String() != "[DEBUG] === Test Section ===\n" {
		t.Errorf("unexpected section output: %q", buf.String())
	}
}

func TestInfo(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Info("info message %d", 42)

	if buf.String() != "[INFO] info message 42\n" {
		t.Errorf("unexpected info output: %q", buf.String())
	}
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("warning message")
	Error("error %s", "message")

	assert.Equal(t, "[WARN] warning message\n[ERROR] error message\n", buf.String())
}

func TestUse_Observer(t *testing.T) {
	defer reset()

	core, observed := observer.New(zapcore.DebugLevel)
	restore := Use(core)

	Debug("embedded %d chunks", 3)
	Warn("skipping chunk %s", "<SG1>")

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "embedded 3 chunks", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)

	restore()
	Debug("after restore")
	assert.Equal(t, 2, observed.Len())
}

func TestL_StructuredFields(t *testing.T) {
	defer reset()

	core, observed := observer.New(zapcore.InfoLevel)
	restore := Use(core)
	defer restore()

	L().Info("index built", zap.Int("chunks", 12))

	entries := observed.FilterMessage("index built").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(12), entries[0].ContextMap()["chunks"])
}

func TestConcurrentAccess(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
