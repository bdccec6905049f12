package gldriver

import (
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
)

func (d *Driver) FenceSync() uintptr {
	return gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
}

func (d *Driver) IsSync(sync uintptr) bool {
	return gl.IsSync(sync)
}

func (d *Driver) DeleteSync(sync uintptr) {
	gl.DeleteSync(sync)
}

func (d *Driver) ClientWaitSync(sync uintptr, flush bool, timeout time.Duration) gfx.WaitResult {
	var flags uint32
	if flush {
		flags = gl.SYNC_FLUSH_COMMANDS_BIT
	}
	switch gl.ClientWaitSync(sync, flags, uint64(timeout.Nanoseconds())) {
	case gl.ALREADY_SIGNALED:
		return gfx.WaitAlreadySignaled
	case gl.CONDITION_SATISFIED:
		return gfx.WaitSignaled
	case gl.TIMEOUT_EXPIRED:
		return gfx.WaitTimeout
	}
	return gfx.WaitFailed
}

func (d *Driver) SyncSignaled(sync uintptr) bool {
	var status int32
	gl.GetSynciv(sync, gl.SYNC_STATUS, 1, nil, &status)
	return status == gl.SIGNALED
}

func (d *Driver) GenQuery() uint32 {
	var id uint32
	gl.GenQueries(1, &id)
	return id
}

func (d *Driver) DeleteQuery(id uint32) {
	gl.DeleteQueries(1, &id)
}

func (d *Driver) IsQuery(id uint32) bool {
	return gl.IsQuery(id)
}

func (d *Driver) QueryCounter(id uint32) {
	gl.QueryCounter(id, gl.TIMESTAMP)
}

func (d *Driver) QueryResultAvailable(id uint32) bool {
	var available int32
	gl.GetQueryObjectiv(id, gl.QUERY_RESULT_AVAILABLE, &available)
	return available != 0
}

func (d *Driver) QueryResult(id uint32) uint64 {
	var ns uint64
	gl.GetQueryObjectui64v(id, gl.QUERY_RESULT, &ns)
	return ns
}
