package metrics

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestRecorder_FlushOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	NewWithLogger(logger, Namespace).
		Dimension("Workflow", "browse").
		Metric("RenderDurationMs", 1234.5, UnitMilliseconds).
		Metric("StagedFrames", 42, UnitCount).
		Property("output", "out/rendered_video.mp4").
		Flush()

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("failed to parse metrics output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if doc["namespace"] != Namespace {
		t.Errorf("namespace = %v, want %s", doc["namespace"], Namespace)
	}
	if doc["message"] != "metrics" {
		t.Errorf("message = %v, want metrics", doc["message"])
	}

	dims, ok := doc["dimensions"].(map[string]interface{})
	if !ok || dims["Workflow"] != "browse" {
		t.Errorf("dimensions = %v, want Workflow=browse", doc["dimensions"])
	}

	values, ok := doc["metrics"].(map[string]interface{})
	if !ok {
		t.Fatalf("metrics field missing: %v", doc)
	}
	if values["RenderDurationMs"] != 1234.5 {
		t.Errorf("RenderDurationMs = %v, want 1234.5", values["RenderDurationMs"])
	}
	if values["StagedFrames"] != float64(42) {
		t.Errorf("StagedFrames = %v, want 42", values["StagedFrames"])
	}

	units, ok := doc["units"].(map[string]interface{})
	if !ok || units["RenderDurationMs"] != UnitMilliseconds {
		t.Errorf("units = %v, want RenderDurationMs=%s", doc["units"], UnitMilliseconds)
	}

	if doc["output"] != "out/rendered_video.mp4" {
		t.Errorf("output property = %v", doc["output"])
	}
}

func TestRecorder_EmptyFlush(t *testing.T) {
	var buf bytes.Buffer
	NewWithLogger(zerolog.New(&buf), Namespace).
		Dimension("Workflow", "browse").
		Flush()

	if buf.Len() != 0 {
		t.Errorf("expected no output for recorder without metrics, got: %s", buf.String())
	}
}

func TestRecorder_Count(t *testing.T) {
	r := New(Namespace).Count("EncodeErrors")
	m, ok := r.metrics["EncodeErrors"]
	if !ok {
		t.Fatal("Count did not record metric")
	}
	if m.value != 1 || m.unit != UnitCount {
		t.Errorf("Count recorded %v %s, want 1 %s", m.value, m.unit, UnitCount)
	}
}
