package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupDisabled(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	tel, err := Setup(context.Background(), "test:telemetry", Config{TraceFile: path})
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)

	_, span := otel.Tracer("test").Start(context.Background(), "TestSpan")
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "TestSpan")
}
