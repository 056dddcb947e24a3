package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"ecommerce-dashboard/internal/config"
)

func TestStartSpan_InheritsTrace(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "parent")
	_, child := StartSpan(ctx, "child")

	if child.TraceID != parent.TraceID {
		t.Errorf("child trace = %s, want %s", child.TraceID, parent.TraceID)
	}
	if child.ParentID != parent.SpanID {
		t.Errorf("child parent = %s, want %s", child.ParentID, parent.SpanID)
	}
	if len(parent.SpanID) != 16 {
		t.Errorf("span id %q should be 16 hex chars", parent.SpanID)
	}
}

func TestSpan_FinishAndError(t *testing.T) {
	_, span := StartSpan(context.Background(), "op")
	span.SetError(errors.New("boom"))
	span.Finish()

	if span.Status != SpanStatusError || span.Error != "boom" {
		t.Errorf("span = %+v", span)
	}
	if span.Duration == nil || span.EndTime == nil {
		t.Error("Finish() should set end time and duration")
	}
}

func TestSpan_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "info", Format: "json"})

	_, span := StartSpan(context.Background(), "dashboard.compute")
	span.SetTag("country", "France")
	span.Finish()
	logger.Info("done", "span", span)

	out := buf.String()
	for _, want := range []string{`"operation":"dashboard.compute"`, `"country":"France"`, `"status":"OK"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %s missing %s", out, want)
		}
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "warn", Format: "text"})

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled")
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if GetRequestID(ctx) != "abc" {
		t.Error("request id not stored")
	}
	if GetRequestID(context.Background()) != "" {
		t.Error("missing request id should be empty")
	}
}
