// Package perf records average durations of named operations, such as buffer
// uploads and shader compiles, and reports them through the perf logger.
package perf

import (
	"sort"
	"time"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
)

type average struct {
	// nanoseconds
	total int64
	// recordings
	count int64
}

// Metric is a snapshot of one recorded average.
type Metric struct {
	Key     string
	Average time.Duration
	Count   int64
}

var enabled bool
var averages = make(map[string]average)

// RecordAverageTime adds one recording of nanos to the average of key.
// It does nothing while metrics are disabled.
func RecordAverageTime(key string, nanos int64) {
	if !enabled {
		return
	}

	var avg average
	if v, ok := averages[key]; ok {
		avg = v
	}

	avg.total += nanos
	avg.count++
	averages[key] = avg
}

func SetMetricsEnabled(enable bool) {
	enabled = enable
}

func MetricsEnabled() bool {
	return enabled
}

// Reset forgets every recording.
func Reset() {
	averages = make(map[string]average)
}

// Average returns the average recorded for key.
func Average(key string) (Metric, bool) {
	v, ok := averages[key]
	if !ok || v.count == 0 {
		return Metric{}, false
	}
	return Metric{Key: key, Average: time.Duration(v.total / v.count), Count: v.count}, true
}

// Averages returns a snapshot of every average sorted by key.
func Averages() []Metric {
	keys := make([]string, 0, len(averages))
	for k := range averages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	metrics := make([]Metric, 0, len(keys))
	for _, k := range keys {
		if m, ok := Average(k); ok {
			metrics = append(metrics, m)
		}
	}
	return metrics
}

func LogMetrics() {
	if !enabled || len(averages) == 0 {
		return
	}

	log.Perf("average metrics")
	for _, m := range Averages() {
		log.Perff("- %v = %v (%d samples)", m.Key, m.Average, m.Count)
	}
}
