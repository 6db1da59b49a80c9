package metrics

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump_EmitsRecordedSamples(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.RecordRPCCall("GetBalance", "success", "test", 0.2)
	m.RecordRPCCall("SendTransaction", "error", "test", 0.5)
	m.RecordTransferOutcome("confirmed")
	m.RecordConfirmationWait("test", 3.5)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	require.NoError(t, Dump(registry, logger))

	out := buf.String()
	assert.Contains(t, out, "solana_rpc_calls_total")
	assert.Contains(t, out, "method=GetBalance")
	assert.Contains(t, out, "method=SendTransaction")
	assert.Contains(t, out, "status=error")
	assert.Contains(t, out, "transfers_total")
	assert.Contains(t, out, "outcome=confirmed")
	assert.Contains(t, out, "transfer_confirmation_wait_seconds")
	assert.Contains(t, out, "sum=3.5")
}

func TestRecord_NilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	m.RecordRPCCall("GetBalance", "success", "test", 0.1)
	m.RecordTransferOutcome("confirmed")
	m.RecordConfirmationWait("test", 1.0)
}
