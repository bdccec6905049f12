package perf_test

import (
	"testing"
	"time"

	"github.com/gregjohnson2017/tabula-gfx/pkg/perf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAverageTime(t *testing.T) {
	perf.Reset()
	perf.SetMetricsEnabled(true)
	defer perf.SetMetricsEnabled(false)

	perf.RecordAverageTime("b", 100)
	perf.RecordAverageTime("b", 300)
	perf.RecordAverageTime("a", 50)

	m, ok := perf.Average("b")
	require.True(t, ok)
	assert.Equal(t, 200*time.Nanosecond, m.Average)
	assert.Equal(t, int64(2), m.Count)

	all := perf.Averages()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Key)
	assert.Equal(t, "b", all[1].Key)
}

func TestDisabledMetricsAreDropped(t *testing.T) {
	perf.Reset()
	perf.SetMetricsEnabled(false)
	perf.RecordAverageTime("ignored", 10)
	_, ok := perf.Average("ignored")
	assert.False(t, ok)
}

func TestStopWatch(t *testing.T) {
	perf.Reset()
	perf.SetMetricsEnabled(true)
	defer perf.SetMetricsEnabled(false)

	sw := perf.Start()
	time.Sleep(time.Millisecond)
	sw.StopRecordAverage("sleep")

	m, ok := perf.Average("sleep")
	require.True(t, ok)
	assert.GreaterOrEqual(t, m.Average, time.Millisecond)
}
