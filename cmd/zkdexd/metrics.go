// metrics.go - Metrics collection for the settlement daemon
package main

import (
	"sync"
	"time"
)

// Metric names exposed on /metrics.
const (
	MetricSettledCount       = "settled_count"
	MetricRejectedCount      = "rejected_count"
	MetricRateLimitedCount   = "rate_limited_count"
	MetricProofVerifyTime    = "proof_verify_time"
	MetricCircuitCompileTime = "circuit_compile_time"
	MetricLedgerRecords      = "ledger_records"
	MetricSystemUptime       = "system_uptime"
)

// histogramStats summarizes the recorded samples of one timing metric.
type histogramStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
}

// MetricsCollector aggregates daemon counters, gauges, and timings.
type MetricsCollector struct {
	mu         sync.RWMutex
	counters   map[string]int64
	gauges     map[string]float64
	histograms map[string][]float64
	startTime  time.Time
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:   make(map[string]int64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
		startTime:  time.Now(),
	}
}

func (mc *MetricsCollector) increment(name string) {
	mc.mu.Lock()
	mc.counters[name]++
	mc.mu.Unlock()
}

func (mc *MetricsCollector) setGauge(name string, value float64) {
	mc.mu.Lock()
	mc.gauges[name] = value
	mc.mu.Unlock()
}

func (mc *MetricsCollector) record(name string, value float64) {
	mc.mu.Lock()
	samples := append(mc.histograms[name], value)
	// keep only the most recent 1000 samples
	if len(samples) > 1000 {
		samples = samples[len(samples)-1000:]
	}
	mc.histograms[name] = samples
	mc.mu.Unlock()
}

// RecordSettlement counts an accepted transaction of the given kind.
func (mc *MetricsCollector) RecordSettlement(kind string) {
	mc.increment(MetricSettledCount + "_" + kind)
}

// RecordRejection counts a refused transaction of the given kind.
func (mc *MetricsCollector) RecordRejection(kind string) {
	mc.increment(MetricRejectedCount + "_" + kind)
}

// RecordRateLimited counts a rate-limited submission.
func (mc *MetricsCollector) RecordRateLimited() {
	mc.increment(MetricRateLimitedCount)
}

// RecordVerify records the duration of one proof verification.
func (mc *MetricsCollector) RecordVerify(kind string, d time.Duration) {
	mc.record(MetricProofVerifyTime+"_"+kind, d.Seconds())
}

// RecordCircuitCompile records the duration of one circuit compilation.
func (mc *MetricsCollector) RecordCircuitCompile(kind string, d time.Duration) {
	mc.record(MetricCircuitCompileTime+"_"+kind, d.Seconds())
}

// SetLedgerRecords publishes the current ledger record count.
func (mc *MetricsCollector) SetLedgerRecords(n int) {
	mc.setGauge(MetricLedgerRecords, float64(n))
}

// Summary returns a snapshot of all metrics for the /metrics endpoint.
func (mc *MetricsCollector) Summary() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	counters := make(map[string]int64, len(mc.counters))
	for k, v := range mc.counters {
		counters[k] = v
	}

	gauges := make(map[string]float64, len(mc.gauges)+1)
	for k, v := range mc.gauges {
		gauges[k] = v
	}
	gauges[MetricSystemUptime] = time.Since(mc.startTime).Seconds()

	histograms := make(map[string]histogramStats, len(mc.histograms))
	for k, samples := range mc.histograms {
		if len(samples) == 0 {
			continue
		}
		stats := histogramStats{Count: len(samples), Min: samples[0], Max: samples[0]}
		sum := 0.0
		for _, v := range samples {
			if v < stats.Min {
				stats.Min = v
			}
			if v > stats.Max {
				stats.Max = v
			}
			sum += v
		}
		stats.Avg = sum / float64(stats.Count)
		histograms[k] = stats
	}

	return map[string]interface{}{
		"counters":   counters,
		"gauges":     gauges,
		"histograms": histograms,
	}
}
