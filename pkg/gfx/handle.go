package gfx

import (
	"fmt"
	"strings"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
)

// ObjectType identifies the kind of driver object behind a Handle.
type ObjectType int

// Object types.
const (
	ObjectNone ObjectType = iota
	ObjectBuffer
	ObjectVertexArray
	ObjectShader
	ObjectProgram
	ObjectTexture
	ObjectSampler
	ObjectFrameBuffer
	ObjectFence
	ObjectQuery
)

func (o ObjectType) String() string {
	switch o {
	case ObjectNone:
		return "none"
	case ObjectBuffer:
		return "buffer"
	case ObjectVertexArray:
		return "vertex array"
	case ObjectShader:
		return "shader"
	case ObjectProgram:
		return "program"
	case ObjectTexture:
		return "texture"
	case ObjectSampler:
		return "sampler"
	case ObjectFrameBuffer:
		return "framebuffer"
	case ObjectFence:
		return "fence"
	case ObjectQuery:
		return "query"
	}
	return fmt.Sprintf("ObjectType(%d)", int(o))
}

// ErrorFlag is one failure recorded on a resource. Several may accumulate.
type ErrorFlag uint16

// Error flags in reporting priority order: when several are set, the
// message of the first one in this list is reported.
const (
	CreationFailed ErrorFlag = 1 << iota
	BindFailed
	UnsupportedType
	InvalidIndex
	InsufficientCount
	CompileFailed
	LinkFailed
	FileNotFound
	InvalidData
)

// Sentinel errors matching each ErrorFlag.
const (
	ErrCreationFailed    log.ConstErr = "creation failed"
	ErrBindFailed        log.ConstErr = "could not be bound"
	ErrUnsupportedType   log.ConstErr = "unsupported type"
	ErrInvalidIndex      log.ConstErr = "invalid index"
	ErrInsufficientCount log.ConstErr = "insufficient count"
	ErrCompileFailed     log.ConstErr = "failed to compile shader"
	ErrLinkFailed        log.ConstErr = "failed to link program"
	ErrFileNotFound      log.ConstErr = "file not found"
	ErrInvalidData       log.ConstErr = "invalid data"
)

var flagOrder = []struct {
	flag ErrorFlag
	err  log.ConstErr
}{
	{CreationFailed, ErrCreationFailed},
	{BindFailed, ErrBindFailed},
	{UnsupportedType, ErrUnsupportedType},
	{InvalidIndex, ErrInvalidIndex},
	{InsufficientCount, ErrInsufficientCount},
	{CompileFailed, ErrCompileFailed},
	{LinkFailed, ErrLinkFailed},
	{FileNotFound, ErrFileNotFound},
	{InvalidData, ErrInvalidData},
}

// Err returns the sentinel error of the highest priority flag in f, or nil.
func (f ErrorFlag) Err() error {
	for _, o := range flagOrder {
		if f&o.flag != 0 {
			return o.err
		}
	}
	return nil
}

func (f ErrorFlag) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, o := range flagOrder {
		if f&o.flag != 0 {
			names = append(names, string(o.err))
		}
	}
	return strings.Join(names, "|")
}

// errorState holds the accumulated failures of a resource and the driver
// diagnostic log of the failing step, if any.
type errorState struct {
	kind  ObjectType
	flags ErrorFlag
	info  string
}

// ErrorStatus reports whether flag is set.
func (e *errorState) ErrorStatus(flag ErrorFlag) bool {
	return e.flags&flag != 0
}

// ErrorFlags returns every flag set.
func (e *errorState) ErrorFlags() ErrorFlag {
	return e.flags
}

// ErrorString describes the highest priority failure, followed by the
// driver log when there is one. It returns the empty string when no flag is
// set.
func (e *errorState) ErrorString() string {
	err := e.Err()
	if err == nil {
		return ""
	}
	return err.Error()
}

// Err returns the highest priority failure as an error wrapping one of the
// Err* sentinels, or nil when no flag is set.
func (e *errorState) Err() error {
	sentinel := e.flags.Err()
	if sentinel == nil {
		return nil
	}
	if e.info != "" {
		return fmt.Errorf("%v: %w: %v", e.kind, sentinel, e.info)
	}
	return fmt.Errorf("%v: %w", e.kind, sentinel)
}

// fail sets flag and returns false so callers can return its result.
func (e *errorState) fail(flag ErrorFlag) bool {
	e.flags |= flag
	log.Warnf("%v: %v", e.kind, flag)
	return false
}

// failInfo sets flag and records the driver log explaining it.
func (e *errorState) failInfo(flag ErrorFlag, info string) bool {
	e.info = strings.TrimRight(info, "\x00\n ")
	return e.fail(flag)
}

// Handle is an opaque driver object id plus its error flags. The zero Handle
// is empty; resources embed a Handle and fill it in Initialize.
type Handle struct {
	errorState
	ctx *Context
	id  uint32
}

// ID returns the driver id, 0 when there is no object.
func (h *Handle) ID() uint32 {
	return h.id
}

// Context returns the context the handle was initialized with.
func (h *Handle) Context() *Context {
	return h.ctx
}

// Kind returns the kind of driver object.
func (h *Handle) Kind() ObjectType {
	return h.kind
}

// Valid reports whether the handle has an id, no error flags, and the driver
// still knows the id as an object of the expected kind. The driver is
// queried because objects can be deleted out of band.
func (h *Handle) Valid() bool {
	return h.id != 0 && h.flags == 0 && h.ctx != nil && h.ctx.isLive(h.kind, h.id)
}

func (h *Handle) handle() *Handle {
	return h
}

// reset empties the handle for a fresh initialization.
func (h *Handle) reset(ctx *Context, kind ObjectType) {
	*h = Handle{ctx: ctx}
	h.kind = kind
}

// release deletes the driver object, if any, and empties the handle.
func (h *Handle) release() {
	if h.id != 0 && h.ctx != nil {
		h.ctx.deleteObject(h.kind, h.id)
	}
	kind := h.kind
	*h = Handle{}
	h.kind = kind
}
