package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/processors/minsev"
)

func TestInstrumentLocalFormats(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	shutdown, err := Instrument(slog.LevelInfo, "json", WithWriter(&buf))
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	slog.Debug("hidden")
	slog.Info("shown", "user_id", 42)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.EqualValues(t, 42, rec["user_id"])
}

func TestInstrumentRejectsUnknownFormat(t *testing.T) {
	_, err := Instrument(slog.LevelInfo, "xml")
	assert.Error(t, err)
}

func TestInstrumentStdoutExporter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	shutdown, err := Instrument(slog.LevelInfo, "text", WithWriter(&buf), WithExporter(ExporterStdout, ""))
	require.NoError(t, err)

	slog.Info("exported")
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "exported")
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, minsev.SeverityDebug, severity(slog.LevelDebug))
	assert.Equal(t, minsev.SeverityInfo, severity(slog.LevelInfo))
	assert.Equal(t, minsev.SeverityWarn, severity(slog.LevelWarn))
	assert.Equal(t, minsev.SeverityError, severity(slog.LevelError))
}
