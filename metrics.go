package tensoralg

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/tensoralg/index"
)

// MetricsCollector receives one call per engine operation.
// Implement it to integrate with a monitoring system; see prommetrics.
type MetricsCollector interface {
	// RecordCombination is called after each contraction, addition or trace.
	// components is the size of the result, 0 on error.
	RecordCombination(kind index.Kind, components int, duration time.Duration, err error)

	// RecordRaiseLower is called after each Raise ("raise") or Lower ("lower").
	RecordRaiseLower(op string, duration time.Duration, err error)

	// RecordSnapshot is called after each Save ("save") or Load ("load").
	RecordSnapshot(op string, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCombination(index.Kind, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRaiseLower(string, time.Duration, error)           {}
func (NoopMetricsCollector) RecordSnapshot(string, time.Duration, error)             {}

// BasicMetricsCollector keeps in-memory counters.
type BasicMetricsCollector struct {
	ContractCount     atomic.Int64
	AddCount          atomic.Int64
	TraceCount        atomic.Int64
	CombinationErrors atomic.Int64
	CombinationNanos  atomic.Int64
	ComponentsTotal   atomic.Int64
	RaiseLowerCount   atomic.Int64
	RaiseLowerErrors  atomic.Int64
	SaveCount         atomic.Int64
	LoadCount         atomic.Int64
	SnapshotErrors    atomic.Int64
}

// RecordCombination implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCombination(kind index.Kind, components int, duration time.Duration, err error) {
	switch kind {
	case index.KindEinsum:
		b.ContractCount.Add(1)
	case index.KindAdditive:
		b.AddCount.Add(1)
	case index.KindSelfSum:
		b.TraceCount.Add(1)
	}
	b.CombinationNanos.Add(duration.Nanoseconds())
	b.ComponentsTotal.Add(int64(components))
	if err != nil {
		b.CombinationErrors.Add(1)
	}
}

// RecordRaiseLower implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRaiseLower(_ string, _ time.Duration, err error) {
	b.RaiseLowerCount.Add(1)
	if err != nil {
		b.RaiseLowerErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(op string, _ time.Duration, err error) {
	if op == "load" {
		b.LoadCount.Add(1)
	} else {
		b.SaveCount.Add(1)
	}
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	combinations := b.ContractCount.Load() + b.AddCount.Load() + b.TraceCount.Load()

	var avg int64
	if combinations > 0 {
		avg = b.CombinationNanos.Load() / combinations
	}

	return BasicMetricsStats{
		ContractCount:       b.ContractCount.Load(),
		AddCount:            b.AddCount.Load(),
		TraceCount:          b.TraceCount.Load(),
		CombinationErrors:   b.CombinationErrors.Load(),
		CombinationAvgNanos: avg,
		ComponentsTotal:     b.ComponentsTotal.Load(),
		RaiseLowerCount:     b.RaiseLowerCount.Load(),
		RaiseLowerErrors:    b.RaiseLowerErrors.Load(),
		SaveCount:           b.SaveCount.Load(),
		LoadCount:           b.LoadCount.Load(),
		SnapshotErrors:      b.SnapshotErrors.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ContractCount       int64
	AddCount            int64
	TraceCount          int64
	CombinationErrors   int64
	CombinationAvgNanos int64
	ComponentsTotal     int64
	RaiseLowerCount     int64
	RaiseLowerErrors    int64
	SaveCount           int64
	LoadCount           int64
	SnapshotErrors      int64
}
