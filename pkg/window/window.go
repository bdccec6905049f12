// Package window creates an SDL window with a current OpenGL core context
// and wraps it in a gfx.Context.
package window

import (
	"fmt"
	"runtime"

	"github.com/gregjohnson2017/tabula-gfx/pkg/config"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx/gldriver"
	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
	"github.com/veandco/go-sdl2/sdl"
)

// Window owns an SDL window and its OpenGL context. The goroutine that calls
// Open is locked to its OS thread and must make every gfx call until Close.
type Window struct {
	win   *sdl.Window
	glctx sdl.GLContext
	drv   *gldriver.Driver
	gc    *gfx.Context
}

// Open initializes SDL video, creates the window and makes a core profile
// context of the configured version current.
func Open(wc config.Window, glc config.GL) (*Window, error) {
	runtime.LockOSThread()
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("sdl.Init: %w", err)
	}
	w := &Window{}
	if err := w.open(wc, glc); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func (w *Window) open(wc config.Window, glc config.GL) error {
	if err := setAttributes(glc); err != nil {
		return err
	}

	flags := uint32(sdl.WINDOW_OPENGL)
	if wc.Hidden {
		flags |= sdl.WINDOW_HIDDEN
	} else {
		flags |= sdl.WINDOW_SHOWN
	}
	var err error
	if w.win, err = sdl.CreateWindow(wc.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, wc.Width, wc.Height, flags); err != nil {
		return fmt.Errorf("sdl.CreateWindow: %w", err)
	}
	if w.glctx, err = w.win.GLCreateContext(); err != nil {
		return fmt.Errorf("creating OpenGL %d.%d context: %w", glc.Major, glc.Minor, err)
	}
	if w.drv, err = gldriver.New(); err != nil {
		return err
	}
	w.gc = gfx.NewContext(w.drv)
	log.Debugf("opened %dx%d window %q", wc.Width, wc.Height, wc.Title)
	return nil
}

func setAttributes(glc config.GL) error {
	if err := sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, glc.Major); err != nil {
		return fmt.Errorf("requesting OpenGL major version: %w", err)
	}
	if err := sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, glc.Minor); err != nil {
		return fmt.Errorf("requesting OpenGL minor version: %w", err)
	}
	if err := sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE); err != nil {
		return fmt.Errorf("requesting core profile: %w", err)
	}
	if err := sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1); err != nil {
		return fmt.Errorf("requesting double buffering: %w", err)
	}
	if glc.Debug {
		if err := sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_DEBUG_FLAG); err != nil {
			return fmt.Errorf("requesting debug context: %w", err)
		}
	}
	return nil
}

// Context returns the gfx context of the window.
func (w *Window) Context() *gfx.Context {
	return w.gc
}

// Driver returns the OpenGL driver of the window.
func (w *Window) Driver() *gldriver.Driver {
	return w.drv
}

// Swap presents the back buffer.
func (w *Window) Swap() {
	w.win.GLSwap()
}

// Close destroys the context and the window, shuts SDL down and unlocks the
// OS thread. It is safe to call once after a failed Open.
func (w *Window) Close() {
	if w.glctx != nil {
		sdl.GLDeleteContext(w.glctx)
		w.glctx = nil
	}
	if w.win != nil {
		if err := w.win.Destroy(); err != nil {
			log.Warnf("destroying window: %v", err)
		}
		w.win = nil
	}
	w.gc = nil
	sdl.Quit()
	runtime.UnlockOSThread()
}
