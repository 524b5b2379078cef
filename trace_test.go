package xmlpush_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/lestrrat-go/xmlpush"
	"github.com/lestrrat-go/xmlpush/resolver"
	"github.com/stretchr/testify/require"
)

func traceRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec), "trace output is JSON")
		records = append(records, rec)
	}
	return records
}

func TestTraceLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := xmlpush.NewParser(
		xmlpush.WithTraceLogger(logger),
		xmlpush.WithExternalEntityRef(resolver.Load("<x/>", "").Resolve),
	)
	defer p.Free()

	_, err := p.Feed([]byte(`<!DOCTYPE doc [<!ENTITY e SYSTEM "e.xml">]><doc>&e;</doc>`), true)
	require.NoError(t, err, "parsing succeeds")
	require.ErrorIs(t, p.Stop(true), xmlpush.ErrAlreadyFinished)

	var msgs []string
	var resolving map[string]any
	for _, rec := range traceRecords(t, &buf) {
		msg := rec["msg"].(string)
		msgs = append(msgs, msg)
		if msg == "resolving external entity" {
			resolving = rec
		}
	}
	require.Contains(t, msgs, "resolving external entity")
	require.Contains(t, msgs, "entity parser created")
	require.Contains(t, msgs, "parse finished")
	require.Contains(t, msgs, "control call rejected")

	require.Equal(t, "e.xml", resolving["system_id"])
	require.Equal(t, false, resolving["parameter"])
}

func TestTraceLoggerErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := xmlpush.NewParser(xmlpush.WithTraceLogger(logger))
	defer p.Free()

	_, err := p.Feed([]byte("<doc>\n</x>"), true)
	require.ErrorIs(t, err, xmlpush.ErrTagMismatch)

	records := traceRecords(t, &buf)
	require.NotEmpty(t, records)
	last := records[len(records)-1]
	require.Equal(t, "ERROR", last["level"])
	require.Equal(t, "parse failed", last["msg"])
	require.Equal(t, float64(2), last["line"])
	require.Equal(t, float64(0), last["column"])
}

func TestTraceLoggerStateTransitions(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := xmlpush.NewParser(xmlpush.WithTraceLogger(logger))
	defer p.Free()

	require.NoError(t, p.Stop(true))
	_, err := p.Resume()
	require.NoError(t, err)

	var transitions [][2]any
	for _, rec := range traceRecords(t, &buf) {
		if rec["msg"] == "state transition" {
			transitions = append(transitions, [2]any{rec["from"], rec["to"]})
		}
	}
	require.Equal(t, [][2]any{
		{"running", "suspended"},
		{"suspended", "running"},
	}, transitions)
}
