// Package gfx manages OpenGL resources: buffers, vertex arrays, programs,
// textures and fences. Every resource is a Handle that accumulates error
// flags instead of failing loudly, and every binding goes through a Binder
// so that nested scopes never clobber each other's bindings.
//
// All calls reach the driver through a Context and must come from the
// goroutine that owns the graphics context.
package gfx

import (
	"fmt"
	"strings"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
)

// Context is the binding table and object registry of one graphics context.
// It is the only path from resources to the driver.
type Context struct {
	drv        Driver
	maxAttribs int
}

// NewContext wraps the driver of the current graphics context.
func NewContext(drv Driver) *Context {
	return &Context{drv: drv}
}

// Driver returns the wrapped driver.
func (c *Context) Driver() Driver {
	return c.drv
}

// Bound returns the id currently bound to target.
func (c *Context) Bound(target Target) uint32 {
	return c.drv.Bound(target)
}

// MaxVertexAttribs returns the number of vertex attribute slots of the driver.
func (c *Context) MaxVertexAttribs() int {
	if c.maxAttribs == 0 {
		c.maxAttribs = c.drv.MaxVertexAttribs()
	}
	return c.maxAttribs
}

func (c *Context) bind(target Target, id uint32) {
	switch target {
	case VertexArrayTarget:
		c.drv.BindVertexArray(id)
	case ProgramTarget:
		c.drv.UseProgram(id)
	case FrameBufferTarget:
		c.drv.BindFramebuffer(id)
	case Texture2D:
		c.drv.BindTexture(target, id)
	default:
		c.drv.BindBuffer(target, id)
	}
}

func (c *Context) isLive(kind ObjectType, id uint32) bool {
	if id == 0 {
		return false
	}
	switch kind {
	case ObjectBuffer:
		return c.drv.IsBuffer(id)
	case ObjectVertexArray:
		return c.drv.IsVertexArray(id)
	case ObjectShader:
		return c.drv.IsShader(id)
	case ObjectProgram:
		return c.drv.IsProgram(id)
	case ObjectTexture:
		return c.drv.IsTexture(id)
	case ObjectSampler:
		return c.drv.IsSampler(id)
	case ObjectFrameBuffer:
		return c.drv.IsFramebuffer(id)
	case ObjectQuery:
		return c.drv.IsQuery(id)
	}
	return false
}

func (c *Context) deleteObject(kind ObjectType, id uint32) {
	switch kind {
	case ObjectBuffer:
		c.drv.DeleteBuffer(id)
	case ObjectVertexArray:
		c.drv.DeleteVertexArray(id)
	case ObjectShader:
		c.drv.DeleteShader(id)
	case ObjectProgram:
		c.drv.DeleteProgram(id)
	case ObjectTexture:
		c.drv.DeleteTexture(id)
	case ObjectSampler:
		c.drv.DeleteSampler(id)
	case ObjectFrameBuffer:
		c.drv.DeleteFramebuffer(id)
	case ObjectQuery:
		c.drv.DeleteQuery(id)
	}
	log.Debugf("deleted %v %d", kind, id)
}

// ErrDriver indicates that the driver reported one or more errors.
const ErrDriver log.ConstErr = "driver error"

// maxDrainedErrors bounds the error queue drain in case a broken driver
// never reports NoError.
const maxDrainedErrors = 16

// errorCodes drains the pending driver errors.
func (c *Context) errorCodes() []ErrorCode {
	var codes []ErrorCode
	for i := 0; i < maxDrainedErrors; i++ {
		code := c.drv.GetError()
		if code == NoError {
			break
		}
		codes = append(codes, code)
	}
	return codes
}

// CheckError drains the pending driver errors and returns them as one error
// naming op, or nil when there were none.
func (c *Context) CheckError(op string) error {
	codes := c.errorCodes()
	if len(codes) == 0 {
		return nil
	}
	names := make([]string, len(codes))
	for i, code := range codes {
		names[i] = code.String()
	}
	err := fmt.Errorf("%v: %w: %v", op, ErrDriver, strings.Join(names, ", "))
	log.Errorf("%v", err)
	return err
}

// checkCode drains the pending driver errors and reports whether want was
// among them.
func (c *Context) checkCode(op string, want ErrorCode) bool {
	found := false
	codes := c.errorCodes()
	for _, code := range codes {
		if code == want {
			found = true
		}
	}
	if len(codes) > 0 {
		log.Errorf("%v: %v: %v", op, ErrDriver, codes)
	}
	return found
}
