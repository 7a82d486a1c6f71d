package prommetrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tensoralg"
	"github.com/hupe1980/tensoralg/index"
	"github.com/hupe1980/tensoralg/scalar"
	"github.com/hupe1980/tensoralg/tensor"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.RecordCombination(index.KindEinsum, 9, time.Millisecond, nil)
	c.RecordCombination(index.KindEinsum, 0, time.Millisecond, errors.New("shape"))
	c.RecordRaiseLower("raise", time.Millisecond, nil)
	c.RecordSnapshot("save", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("einsum", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("einsum", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("raise", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("save", "success")))
	assert.Equal(t, 9.0, testutil.ToFloat64(c.components))

	// latency series per (op, status)
	assert.Equal(t, 4, testutil.CollectAndCount(c.opLatency))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

func TestCollector_WithEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	var f scalar.Field[float64] = scalar.Float64{}
	eng, err := tensoralg.New(f, tensoralg.WithMetricsCollector(c))
	require.NoError(t, err)

	m, err := tensor.FromSlice(f, index.Must(2, index.Up("a"), index.Down("a")), []float64{1, 2, 3, 4})
	require.NoError(t, err)
	_, err = eng.Trace(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("selfsum", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.components))
}
