package gfx

import (
	"os"

	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
	"github.com/gregjohnson2017/tabula-gfx/pkg/perf"
)

// Shader is one compiled pipeline stage.
type Shader struct {
	Handle
	stage ShaderKind
}

// NewShader compiles source as a shader of stage kind (ex: VertexShader).
// Check Valid on the result.
func NewShader(gc *Context, kind ShaderKind, source string) *Shader {
	s := &Shader{}
	s.Initialize(gc, kind, source)
	return s
}

// Initialize compiles source. A compile failure keeps the driver log, see
// ErrorString.
func (s *Shader) Initialize(gc *Context, kind ShaderKind, source string) bool {
	s.Finalize()
	s.reset(gc, ObjectShader)
	s.stage = kind
	if gc == nil {
		return s.fail(InvalidData)
	}
	sw := perf.Start()
	defer sw.StopRecordAverage("gfx.compileShader")

	s.id = gc.drv.CreateShader(kind)
	if s.id == 0 {
		return s.fail(CreationFailed)
	}
	gc.drv.ShaderSource(s.id, source)
	gc.drv.CompileShader(s.id)
	if gc.drv.ShaderParameter(s.id, CompileStatus) == 0 {
		return s.failInfo(CompileFailed, gc.drv.ShaderInfoLog(s.id))
	}
	log.Debugf("compiled %v shader %d", kind, s.id)
	return true
}

// InitializeFile compiles the shader source stored at path.
func (s *Shader) InitializeFile(gc *Context, kind ShaderKind, path string) bool {
	src, err := os.ReadFile(path)
	if err != nil {
		s.Finalize()
		s.reset(gc, ObjectShader)
		s.stage = kind
		if os.IsNotExist(err) {
			return s.failInfo(FileNotFound, path)
		}
		return s.failInfo(InvalidData, err.Error())
	}
	return s.Initialize(gc, kind, string(src))
}

// Finalize deletes the shader. Programs it was linked into keep working.
func (s *Shader) Finalize() {
	s.release()
	s.stage = 0
}

func (s *Shader) Stage() ShaderKind {
	return s.stage
}
