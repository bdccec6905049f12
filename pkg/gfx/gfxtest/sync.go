package gfxtest

import (
	"time"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
)

// QueryStep is how far the fake GPU clock advances per recorded timestamp.
const QueryStep = time.Microsecond

type fence struct {
	remaining int
}

type query struct {
	counted bool
	stamp   uint64
}

func (d *Driver) FenceSync() uintptr {
	if d.RefuseGen {
		return 0
	}
	d.nextSync++
	d.syncs[d.nextSync] = &fence{remaining: d.FenceDelay}
	return d.nextSync
}

func (d *Driver) IsSync(sync uintptr) bool {
	_, ok := d.syncs[sync]
	return ok
}

func (d *Driver) DeleteSync(sync uintptr) {
	delete(d.syncs, sync)
}

// ClientWaitSync advances the fence by one step per call regardless of
// timeout.
func (d *Driver) ClientWaitSync(sync uintptr, flush bool, timeout time.Duration) gfx.WaitResult {
	f, ok := d.syncs[sync]
	if !ok {
		d.fail(gfx.InvalidValue)
		return gfx.WaitFailed
	}
	if f.remaining <= 0 {
		return gfx.WaitAlreadySignaled
	}
	f.remaining--
	if f.remaining == 0 {
		return gfx.WaitSignaled
	}
	return gfx.WaitTimeout
}

// SyncSignaled advances the fence by one step when it is not signaled yet.
func (d *Driver) SyncSignaled(sync uintptr) bool {
	f, ok := d.syncs[sync]
	if !ok {
		d.fail(gfx.InvalidValue)
		return false
	}
	if f.remaining > 0 {
		f.remaining--
		return false
	}
	return true
}

func (d *Driver) GenQuery() uint32 {
	id := d.gen()
	if id != 0 {
		d.queries[id] = &query{}
	}
	return id
}

func (d *Driver) DeleteQuery(id uint32) {
	delete(d.queries, id)
}

// IsQuery reports true only once a timestamp was recorded into the query.
func (d *Driver) IsQuery(id uint32) bool {
	q, ok := d.queries[id]
	return ok && q.counted
}

func (d *Driver) QueryCounter(id uint32) {
	q, ok := d.queries[id]
	if !ok {
		d.fail(gfx.InvalidOperation)
		return
	}
	d.clock += uint64(QueryStep)
	q.counted = true
	q.stamp = d.clock
}

func (d *Driver) QueryResultAvailable(id uint32) bool {
	q, ok := d.queries[id]
	return ok && q.counted
}

func (d *Driver) QueryResult(id uint32) uint64 {
	q, ok := d.queries[id]
	if !ok || !q.counted {
		d.fail(gfx.InvalidOperation)
		return 0
	}
	return q.stamp
}
