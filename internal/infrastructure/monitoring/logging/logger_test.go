package logging

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestLevels(t *testing.T) {
	log, logs := newObservedLogger(zapcore.InfoLevel)

	log.Debug("should be dropped")
	log.Info("info msg")
	log.Warn("warn msg")
	log.Error("error msg")

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "info msg" || entries[0].Level != zapcore.InfoLevel {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestFieldConversion(t *testing.T) {
	log, logs := newObservedLogger(zapcore.DebugLevel)

	log.Info("typed fields",
		String("doc", "lease.pdf"),
		Int("sections", 12),
		Int64("bytes", int64(4096)),
		Float64("risk_score", 47.5),
		Bool("cached", false),
		Duration("took", 120*time.Millisecond),
		Err(errors.New("boom")),
	)

	entry := logs.All()[0]
	got := entry.ContextMap()
	if got["doc"] != "lease.pdf" {
		t.Errorf("doc = %v", got["doc"])
	}
	if got["risk_score"] != 47.5 {
		t.Errorf("risk_score = %v", got["risk_score"])
	}
	if got["error"] != "boom" {
		t.Errorf("error = %v", got["error"])
	}
}

func TestErrNil(t *testing.T) {
	log, logs := newObservedLogger(zapcore.DebugLevel)
	log.Info("nil err", Err(nil))
	if got := logs.All()[0].ContextMap()["error"]; got != "<nil>" {
		t.Errorf("error = %v, want <nil>", got)
	}
}

func TestWithAndNamed(t *testing.T) {
	log, logs := newObservedLogger(zapcore.DebugLevel)

	child := log.With(String("component", "risk")).Named("analyzer")
	child.Info("child entry")

	// Parent must not carry the child's fields.
	log.Info("parent entry")

	entries := logs.All()
	if entries[0].ContextMap()["component"] != "risk" {
		t.Error("child missing inherited field")
	}
	if entries[0].LoggerName != "analyzer" {
		t.Errorf("LoggerName = %q", entries[0].LoggerName)
	}
	if _, ok := entries[1].ContextMap()["component"]; ok {
		t.Error("parent logger was mutated by With")
	}
}

func TestNewLoggerDefaults(t *testing.T) {
	log, err := NewLogger(Config{})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if log == nil {
		t.Fatal("nil logger")
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	// Must not panic, and With/Named return usable loggers.
	log.With(String("k", "v")).Named("x").Info("ignored")
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	log, logs := newObservedLogger(zapcore.DebugLevel)
	SetDefault(log)
	Default().Info("via default")
	if len(logs.All()) != 1 {
		t.Error("default logger did not receive the entry")
	}

	// nil must be ignored.
	SetDefault(nil)
	if Default() == nil {
		t.Error("SetDefault(nil) replaced the default")
	}
}
