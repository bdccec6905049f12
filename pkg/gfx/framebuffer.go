package gfx

import "github.com/gregjohnson2017/tabula-gfx/pkg/log"

const colorAttachment0 = 0x8CE0

// FrameBuffer is a render target drawing into an RGBA color texture.
type FrameBuffer struct {
	Handle
	tex    Texture
	failed ObjectType
}

// NewFrameBuffer creates a framebuffer with a width by height color texture.
// Check Valid on the result.
func NewFrameBuffer(gc *Context, width, height int) *FrameBuffer {
	fb := &FrameBuffer{}
	fb.Initialize(gc, width, height)
	return fb
}

// Initialize creates the framebuffer and its color texture and checks that
// the result is complete.
func (fb *FrameBuffer) Initialize(gc *Context, width, height int) bool {
	fb.Finalize()
	fb.reset(gc, ObjectFrameBuffer)
	if gc == nil {
		fb.failed = ObjectFrameBuffer
		return fb.fail(InvalidData)
	}
	fb.id = gc.drv.GenFramebuffer()
	if fb.id == 0 {
		fb.failed = ObjectFrameBuffer
		return fb.fail(CreationFailed)
	}
	if !fb.tex.Initialize(gc, width, height, nil, RGBA) {
		fb.failed = ObjectTexture
		return false
	}
	g := Bind(fb)
	defer g.Release()
	if fb.flags != 0 {
		fb.failed = ObjectFrameBuffer
		return false
	}
	gc.drv.FramebufferTexture2D(colorAttachment0, Texture2D, fb.tex.id)
	if !gc.drv.FramebufferComplete() {
		fb.failed = ObjectFrameBuffer
		return fb.failInfo(InvalidData, "incomplete framebuffer")
	}
	log.Debugf("created %dx%d framebuffer %d", width, height, fb.id)
	return true
}

// Finalize deletes the framebuffer and its color texture.
func (fb *FrameBuffer) Finalize() {
	fb.release()
	fb.tex.Finalize()
	fb.failed = ObjectNone
}

func (fb *FrameBuffer) Target() Target {
	return FrameBufferTarget
}

// Bind redirects drawing into the framebuffer until the returned Binder is
// released.
func (fb *FrameBuffer) Bind() *Binder {
	return Bind(fb)
}

// Texture returns the color texture.
func (fb *FrameBuffer) Texture() *Texture {
	return &fb.tex
}

func (fb *FrameBuffer) Valid() bool {
	return fb.Handle.Valid() && fb.tex.Valid()
}

// FailedObject returns which of the framebuffer and its texture failed
// first.
func (fb *FrameBuffer) FailedObject() ObjectType {
	if fb.failed != ObjectNone {
		return fb.failed
	}
	switch {
	case fb.id != 0 && !fb.Handle.Valid():
		return ObjectFrameBuffer
	case fb.tex.id != 0 && !fb.tex.Valid():
		return ObjectTexture
	}
	return ObjectNone
}

func (fb *FrameBuffer) ErrorString() string {
	if fb.FailedObject() == ObjectTexture {
		return fb.tex.ErrorString()
	}
	return fb.Handle.ErrorString()
}

func (fb *FrameBuffer) Err() error {
	if fb.FailedObject() == ObjectTexture {
		return fb.tex.Err()
	}
	return fb.Handle.Err()
}
