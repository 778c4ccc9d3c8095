package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []SpanRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		records = append(records, r)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestFileExporter_WritesSessionSpan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exp, err := NewFileExporter(path)
	require.NoError(t, err)

	start := time.Date(2026, 1, 17, 9, 0, 0, 0, time.UTC)
	stub := tracetest.SpanStub{
		Name:      SpanSessionRun,
		StartTime: start,
		EndTime:   start.Add(60 * time.Second),
		Status:    sdktrace.Status{Code: codes.Ok},
		Attributes: []attribute.KeyValue{
			attribute.String(AttrSessionID, "abc"),
			attribute.Int(AttrDuration, 60),
		},
		Events: []sdktrace.Event{{
			Name:       EventCue,
			Time:       start.Add(3 * time.Second),
			Attributes: []attribute.KeyValue{attribute.Int64(AttrDelayMs, 4000)},
		}},
	}
	require.NoError(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exp.Shutdown(context.Background()))

	records := readRecords(t, path)
	require.Len(t, records, 1)

	r := records[0]
	require.Equal(t, SpanSessionRun, r.Name)
	require.Equal(t, "OK", r.Status)
	require.InDelta(t, 60000.0, r.DurationMs, 0.001)
	require.Equal(t, "abc", r.Attributes[AttrSessionID])
	require.EqualValues(t, 60, r.Attributes[AttrDuration])
	require.Len(t, r.Events, 1)
	require.Equal(t, EventCue, r.Events[0].Name)
	require.EqualValues(t, 4000, r.Events[0].Attributes[AttrDelayMs])
}

func TestFileExporter_AppendsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "traces.jsonl")

	for range 2 {
		exp, err := NewFileExporter(path)
		require.NoError(t, err)
		stub := tracetest.SpanStub{Name: SpanSessionRun}
		require.NoError(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
		require.NoError(t, exp.Shutdown(context.Background()))
	}

	require.Len(t, readRecords(t, path), 2)
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exp, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exp.Shutdown(context.Background()))
	require.NoError(t, exp.Shutdown(context.Background()))

	stub := tracetest.SpanStub{Name: SpanSessionRun}
	require.Error(t, exp.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
}
