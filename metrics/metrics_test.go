package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordOperationAttempt("assign")
	m.RecordOperationAttempt("assign")
	m.RecordOperationSuccess("assign")
	m.RecordOperationFailure("assign")
	m.RecordOperationDuration("assign", 3*time.Millisecond)
	m.RecordAssignments(10, 3)
	m.RecordBracket(16)
	m.RecordBracket(16)
	m.RecordSet(false)
	m.RecordSet(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("assign", "attempt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("assign", "failure")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.assignments))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.targets))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.brackets.WithLabelValues("16")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sets))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shootOffs))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOperationAttempt("x")
		m.RecordOperationSuccess("x")
		m.RecordOperationFailure("x")
		m.RecordOperationDuration("x", time.Second)
		m.RecordAssignments(1, 1)
		m.RecordBracket(8)
		m.RecordSet(true)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("ignored.prom"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordBracket(8)

	path := filepath.Join(t.TempDir(), "archery.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `archery_brackets_generated_total{size="8"} 1`)
}
