package perf

import "time"

// StopWatch is a time.Time with a stopping methods
type StopWatch struct {
	t time.Time
}

// Start returns a newly started stopwatch
func Start() StopWatch {
	return StopWatch{time.Now()}
}

// StopGetNano returns the nanoseconds from the stopwatch start
func (sw StopWatch) StopGetNano() int64 {
	return time.Since(sw.t).Nanoseconds()
}

// StopRecordAverage records the time since the stopwatch start as one sample
// of the average for key.
func (sw StopWatch) StopRecordAverage(key string) {
	RecordAverageTime(key, sw.StopGetNano())
}
