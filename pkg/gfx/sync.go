package gfx

import (
	"context"
	"time"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
)

// Fence marks a point in the command stream that the CPU can wait for.
type Fence struct {
	errorState
	ctx  *Context
	sync uintptr
}

// fencePoll is the wait slice used by WaitContext.
const fencePoll = time.Millisecond

// NewFence inserts a fence after the commands submitted so far.
func NewFence(gc *Context) *Fence {
	f := &Fence{}
	f.Initialize(gc)
	return f
}

// Initialize inserts the fence, deleting any previous one.
func (f *Fence) Initialize(gc *Context) bool {
	f.Finalize()
	f.ctx = gc
	if gc == nil {
		return f.fail(InvalidData)
	}
	f.sync = gc.drv.FenceSync()
	if f.sync == 0 {
		return f.fail(CreationFailed)
	}
	return true
}

// Finalize deletes the fence.
func (f *Fence) Finalize() {
	if f.sync != 0 && f.ctx != nil {
		f.ctx.drv.DeleteSync(f.sync)
	}
	*f = Fence{errorState: errorState{kind: ObjectFence}}
}

// Valid reports whether the fence exists without error flags.
func (f *Fence) Valid() bool {
	return f.sync != 0 && f.flags == 0 && f.ctx != nil && f.ctx.drv.IsSync(f.sync)
}

// Signaled reports whether the commands before the fence completed, without
// blocking.
func (f *Fence) Signaled() bool {
	return f.Valid() && f.ctx.drv.SyncSignaled(f.sync)
}

// Wait blocks for up to timeout until the fence signals, flushing pending
// commands first.
func (f *Fence) Wait(timeout time.Duration) WaitResult {
	if !f.Valid() {
		return WaitFailed
	}
	r := f.ctx.drv.ClientWaitSync(f.sync, true, max(timeout, 0))
	if r == WaitFailed {
		_ = f.ctx.CheckError("ClientWaitSync")
	}
	return r
}

// WaitContext waits until the fence signals or ctx is done, in which case
// ctx's error is returned.
func (f *Fence) WaitContext(ctx context.Context) error {
	flush := true
	for {
		if !f.Valid() {
			return f.waitErr()
		}
		r := f.ctx.drv.ClientWaitSync(f.sync, flush, fencePoll)
		flush = false
		switch r {
		case WaitSignaled, WaitAlreadySignaled:
			return nil
		case WaitFailed:
			log.Warn("fence wait failed")
			return f.waitErr()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (f *Fence) waitErr() error {
	if err := f.Err(); err != nil {
		return err
	}
	return ErrInvalidData
}
