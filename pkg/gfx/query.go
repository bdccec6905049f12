package gfx

import (
	"time"

	"github.com/gregjohnson2017/tabula-gfx/pkg/perf"
)

// TimerQuery measures GPU time between two points of the command stream with
// a pair of timestamp queries.
type TimerQuery struct {
	start Handle
	stop  Handle
	key   string
	began bool
	ended bool
}

// NewTimerQuery creates the timestamp queries. Elapsed times are recorded
// into the perf averages under key.
func NewTimerQuery(gc *Context, key string) *TimerQuery {
	q := &TimerQuery{}
	q.Initialize(gc, key)
	return q
}

func (q *TimerQuery) Initialize(gc *Context, key string) bool {
	q.Finalize()
	q.key = key
	q.start.reset(gc, ObjectQuery)
	q.stop.reset(gc, ObjectQuery)
	if gc == nil {
		return q.start.fail(InvalidData)
	}
	q.start.id = gc.drv.GenQuery()
	q.stop.id = gc.drv.GenQuery()
	if q.start.id == 0 {
		return q.start.fail(CreationFailed)
	}
	if q.stop.id == 0 {
		return q.stop.fail(CreationFailed)
	}
	return true
}

func (q *TimerQuery) Finalize() {
	q.start.release()
	q.stop.release()
	q.began, q.ended = false, false
}

func (q *TimerQuery) Valid() bool {
	// queries only become objects once a timestamp was recorded into them
	return q.start.id != 0 && q.stop.id != 0 && q.start.flags == 0 && q.stop.flags == 0
}

func (q *TimerQuery) Err() error {
	if err := q.start.Err(); err != nil {
		return err
	}
	return q.stop.Err()
}

// Begin records the start timestamp.
func (q *TimerQuery) Begin() bool {
	if !q.Valid() {
		return false
	}
	q.start.ctx.drv.QueryCounter(q.start.id)
	q.began, q.ended = true, false
	return true
}

// End records the stop timestamp.
func (q *TimerQuery) End() bool {
	if !q.Valid() || !q.began {
		return false
	}
	q.stop.ctx.drv.QueryCounter(q.stop.id)
	q.ended = true
	return true
}

// Available reports whether both timestamps can be read without blocking.
func (q *TimerQuery) Available() bool {
	if !q.Valid() || !q.ended {
		return false
	}
	drv := q.start.ctx.drv
	return drv.QueryResultAvailable(q.start.id) && drv.QueryResultAvailable(q.stop.id)
}

// Elapsed returns the GPU time between Begin and End and records it under
// the query's key. It reports false while the result is not available.
func (q *TimerQuery) Elapsed() (time.Duration, bool) {
	if !q.Available() {
		return 0, false
	}
	drv := q.start.ctx.drv
	t0, t1 := drv.QueryResult(q.start.id), drv.QueryResult(q.stop.id)
	if t1 < t0 {
		return 0, false
	}
	d := time.Duration(t1 - t0)
	perf.RecordAverageTime(q.key, d.Nanoseconds())
	return d, true
}
