package performance

import (
	"sync"
	"time"
)

const defaultMaxSamples = 100

// PerformanceMonitor tracks timing metrics by name
type PerformanceMonitor struct {
	metrics map[string]*Metric
	mutex   sync.RWMutex
}

// Metric represents a performance metric
type Metric struct {
	Name        string
	Count       int64
	TotalTime   time.Duration
	MinTime     time.Duration
	MaxTime     time.Duration
	LastTime    time.Duration
	LastUpdated time.Time
	Samples     []time.Duration
	MaxSamples  int
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		metrics: make(map[string]*Metric),
	}
}

// StartTimer starts timing an operation; call the returned func to stop it
func (pm *PerformanceMonitor) StartTimer(name string) func() {
	start := time.Now()
	return func() {
		pm.RecordDuration(name, time.Since(start))
	}
}

// RecordDuration records a duration for a metric
func (pm *PerformanceMonitor) RecordDuration(name string, duration time.Duration) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	metric, exists := pm.metrics[name]
	if !exists {
		metric = &Metric{
			Name:       name,
			MaxSamples: defaultMaxSamples,
			Samples:    make([]time.Duration, 0, defaultMaxSamples),
		}
		pm.metrics[name] = metric
	}

	if metric.Count == 0 || duration < metric.MinTime {
		metric.MinTime = duration
	}
	if duration > metric.MaxTime {
		metric.MaxTime = duration
	}

	metric.Count++
	metric.TotalTime += duration
	metric.LastTime = duration
	metric.LastUpdated = time.Now()

	if len(metric.Samples) >= metric.MaxSamples {
		metric.Samples = metric.Samples[1:]
	}
	metric.Samples = append(metric.Samples, duration)
}

// GetMetric returns a copy of a metric, or nil if it was never recorded
func (pm *PerformanceMonitor) GetMetric(name string) *Metric {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	metric, exists := pm.metrics[name]
	if !exists {
		return nil
	}
	return metric.clone()
}

// GetAllMetrics returns copies of all metrics
func (pm *PerformanceMonitor) GetAllMetrics() map[string]*Metric {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	result := make(map[string]*Metric, len(pm.metrics))
	for name, metric := range pm.metrics {
		result[name] = metric.clone()
	}
	return result
}

func (m *Metric) clone() *Metric {
	c := *m
	c.Samples = append([]time.Duration(nil), m.Samples...)
	return &c
}

// AverageTime returns the average time for a metric
func (m *Metric) AverageTime() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.TotalTime / time.Duration(m.Count)
}

// RecentAverageTime returns the average of the last sampleCount samples
func (m *Metric) RecentAverageTime(sampleCount int) time.Duration {
	if len(m.Samples) == 0 || sampleCount <= 0 {
		return 0
	}

	start := len(m.Samples) - sampleCount
	if start < 0 {
		start = 0
	}

	var total time.Duration
	for _, sample := range m.Samples[start:] {
		total += sample
	}
	return total / time.Duration(len(m.Samples)-start)
}

// Reset resets a metric
func (pm *PerformanceMonitor) Reset(name string) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if metric, exists := pm.metrics[name]; exists {
		metric.reset()
	}
}

// ResetAll resets all metrics
func (pm *PerformanceMonitor) ResetAll() {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for _, metric := range pm.metrics {
		metric.reset()
	}
}

func (m *Metric) reset() {
	m.Count = 0
	m.TotalTime = 0
	m.MinTime = 0
	m.MaxTime = 0
	m.LastTime = 0
	m.Samples = m.Samples[:0]
}
