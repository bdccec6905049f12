// Package probe exercises every gfx resource kind against a live context
// and reports the outcome of each step. It is the self check of the
// tabula-gfx command and runs the same way on the OpenGL and the fake
// driver.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
	"github.com/gregjohnson2017/tabula-gfx/pkg/perf"
)

// Step names in execution order.
const (
	StepShaders       = "shaders"
	StepProgram       = "program"
	StepUniformBuffer = "uniform buffer"
	StepVertexBuffer  = "vertex buffer"
	StepIndexBuffer   = "index buffer"
	StepIndirect      = "indirect buffers"
	StepTexture       = "texture"
	StepFrameBuffer   = "framebuffer"
	StepDraw          = "draw"
	StepFence         = "fence"
	StepTimer         = "timer"
	StepReadback      = "readback"
)

const (
	// TargetSize is the width and height of the framebuffer drawn into.
	TargetSize = 64
	// Instances is the instance count patched into the indexed indirect
	// command after it was created.
	Instances = 2
	// TimerKey is the perf key of the GPU time of the draw step.
	TimerKey = "probe.gpuDraw"
)

// Probe errors.
const (
	ErrInvalid  log.ConstErr = "resource is not valid"
	ErrDraw     log.ConstErr = "draw rejected"
	ErrReadback log.ConstErr = "readback mismatch"
	ErrPending  log.ConstErr = "query result not available"
)

type vertex struct {
	X, Y float32
	S, T float32
}

var quad = []vertex{
	{-1, -1, 0, 0},
	{1, -1, 1, 0},
	{1, 1, 1, 1},
	{-1, 1, 0, 1},
}

var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

var identity = []float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Step is the outcome of one probe step.
type Step struct {
	Name string
	// Err is nil when the step passed.
	Err error
	// Skipped is set for the steps after a failure.
	Skipped bool
	Elapsed time.Duration
}

// Report lists every step in execution order.
type Report struct {
	Steps []Step
	// Draws is the number of accepted draw calls.
	Draws int
	// GPUTime is the GPU time of the draw step, 0 when it was not measured.
	GPUTime time.Duration
}

// Passed reports whether every step ran without error.
func (r Report) Passed() bool {
	for _, s := range r.Steps {
		if s.Err != nil || s.Skipped {
			return false
		}
	}
	return len(r.Steps) > 0
}

// Err joins the errors of the failed steps, each prefixed by its step name.
func (r Report) Err() error {
	var errs []error
	for _, s := range r.Steps {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, s.Err))
		}
	}
	return errors.Join(errs...)
}

// Log writes one line per step.
func (r Report) Log() {
	for _, s := range r.Steps {
		switch {
		case s.Skipped:
			log.Infof("probe %-16s skipped", s.Name)
		case s.Err != nil:
			log.Warnf("probe %-16s FAILED after %v: %v", s.Name, s.Elapsed, s.Err)
		default:
			log.Infof("probe %-16s ok in %v", s.Name, s.Elapsed)
		}
	}
	if r.GPUTime > 0 {
		log.Infof("probe %d draws took %v on the GPU", r.Draws, r.GPUTime)
	}
}

type prober struct {
	ctx    context.Context
	gc     *gfx.Context
	report Report
	failed bool

	vs, fs   gfx.Shader
	prog     gfx.Program
	uniforms gfx.UniformBuffer
	vertices gfx.VertexBuffer
	indices  gfx.IndexBuffer[uint16]
	elements gfx.IndirectBuffer
	arrays   gfx.IndirectBuffer
	tex      gfx.Texture
	sampler  gfx.Sampler
	target   gfx.FrameBuffer
	fence    gfx.Fence
	timer    gfx.TimerQuery
}

// Run creates a program with a uniform block, a textured quad with index and
// indirect command buffers and a framebuffer, draws the quad three ways,
// waits for the GPU and reads the result back. The first failing step skips
// the rest. Every resource is deleted before Run returns.
func Run(ctx context.Context, gc *gfx.Context) Report {
	p := &prober{ctx: ctx, gc: gc}
	defer p.finalize()

	p.step(StepShaders, p.compile)
	p.step(StepProgram, p.link)
	p.step(StepUniformBuffer, p.uniformBuffer)
	p.step(StepVertexBuffer, p.vertexBuffer)
	p.step(StepIndexBuffer, p.indexBuffer)
	p.step(StepIndirect, p.indirect)
	p.step(StepTexture, p.texture)
	p.step(StepFrameBuffer, p.frameBuffer)
	p.step(StepDraw, p.draw)
	p.step(StepFence, p.wait)
	p.step(StepTimer, p.elapsed)
	p.step(StepReadback, p.readback)
	return p.report
}

func (p *prober) step(name string, fn func() error) {
	if p.failed {
		p.report.Steps = append(p.report.Steps, Step{Name: name, Skipped: true})
		return
	}
	sw := perf.Start()
	err := fn()
	elapsed := time.Duration(sw.StopGetNano())
	perf.RecordAverageTime("probe."+name, elapsed.Nanoseconds())
	if err != nil {
		p.failed = true
	}
	p.report.Steps = append(p.report.Steps, Step{Name: name, Err: err, Elapsed: elapsed})
}

func (p *prober) finalize() {
	p.timer.Finalize()
	p.fence.Finalize()
	p.target.Finalize()
	p.sampler.Finalize()
	p.tex.Finalize()
	p.arrays.Finalize()
	p.elements.Finalize()
	p.indices.Finalize()
	p.vertices.Finalize()
	p.uniforms.Finalize()
	p.prog.Finalize()
	p.fs.Finalize()
	p.vs.Finalize()
}

type resource interface {
	Valid() bool
	Err() error
}

func check(r resource) error {
	if r.Valid() {
		return nil
	}
	if err := r.Err(); err != nil {
		return err
	}
	return ErrInvalid
}

func (p *prober) compile() error {
	p.vs.Initialize(p.gc, gfx.VertexShader, VertexSource)
	if err := check(&p.vs); err != nil {
		return err
	}
	p.fs.Initialize(p.gc, gfx.FragmentShader, FragmentSource)
	return check(&p.fs)
}

func (p *prober) link() error {
	p.prog.Initialize(p.gc, &p.vs, &p.fs)
	if err := check(&p.prog); err != nil {
		return err
	}
	// linked programs keep working without their shaders
	p.vs.Finalize()
	p.fs.Finalize()
	if !p.prog.Uniform(TintUniform, 1, 1, 1, 1) {
		return check(&p.prog)
	}
	return nil
}

func (p *prober) uniformBuffer() error {
	p.uniforms.Initialize(p.gc, &p.prog, BlockName, 0, gfx.Bytes(identity), gfx.DynamicDraw)
	return check(&p.uniforms)
}

func (p *prober) vertexBuffer() error {
	stride, layout := gfx.Floats(2, 2)
	p.vertices.Initialize(p.gc, gfx.StaticDraw, gfx.Bytes(quad), stride, layout)
	return check(&p.vertices)
}

func (p *prober) indexBuffer() error {
	p.indices.Initialize(p.gc, gfx.StaticDraw, quadIndices)
	return check(&p.indices)
}

func (p *prober) indirect() error {
	p.elements.Initialize(p.gc, gfx.ElementsCommand, gfx.DynamicDraw, gfx.Bytes([]gfx.DrawElementsCommand{{
		Count:         uint32(len(quadIndices)),
		InstanceCount: 1,
	}}))
	if err := check(&p.elements); err != nil {
		return err
	}
	if !p.elements.SetInstanceCount(Instances) || p.elements.InstanceCount() != Instances {
		return fmt.Errorf("%w: instance count %d", ErrReadback, p.elements.InstanceCount())
	}
	p.arrays.Initialize(p.gc, gfx.ArraysCommand, gfx.DynamicDraw, gfx.Bytes([]gfx.DrawArraysCommand{{
		Count:         3,
		InstanceCount: 1,
	}}))
	return check(&p.arrays)
}

// checker returns a size by size image of alternating opaque white and gray
// texels.
func checker(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			c := color.NRGBA{0x4c, 0x4c, 0x4c, 0xff}
			if (x+y)%2 == 0 {
				c = color.NRGBA{0xff, 0xff, 0xff, 0xff}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func (p *prober) texture() error {
	src := checker(4)
	p.tex.InitializeImage(p.gc, src)
	if err := check(&p.tex); err != nil {
		return err
	}
	if got := p.tex.Image(); got == nil || !bytes.Equal(got.Pix, src.Pix) {
		return fmt.Errorf("%w: texture %d", ErrReadback, p.tex.ID())
	}
	p.sampler.Initialize(p.gc)
	if err := check(&p.sampler); err != nil {
		return err
	}
	p.sampler.SetParameter(gfx.TextureMinFilter, gfx.Nearest)
	p.sampler.SetParameter(gfx.TextureMagFilter, gfx.Nearest)
	p.sampler.SetParameter(gfx.TextureWrapS, gfx.ClampToEdge)
	p.sampler.SetParameter(gfx.TextureWrapT, gfx.ClampToEdge)
	return nil
}

func (p *prober) frameBuffer() error {
	p.target.Initialize(p.gc, TargetSize, TargetSize)
	return check(&p.target)
}

func (p *prober) draw() error {
	p.timer.Initialize(p.gc, TimerKey)
	if err := check(&p.timer); err != nil {
		return err
	}
	if err := p.drawQuad(); err != nil {
		return err
	}
	p.fence.Initialize(p.gc)
	if err := check(&p.fence); err != nil {
		return err
	}
	return p.gc.CheckError("probe draw")
}

func (p *prober) drawQuad() error {
	fg := p.target.Bind()
	defer fg.Release()
	pg := p.prog.Use()
	defer pg.Release()
	tg := p.tex.Bind()
	defer tg.Release()
	p.sampler.BindUnit(0)
	defer gfx.UnbindSampler(p.gc, 0)

	p.timer.Begin()
	defer p.timer.End()

	if !p.vertices.DrawIndexed(gfx.Triangles, &p.indices) {
		return fmt.Errorf("%w: indexed", ErrDraw)
	}
	p.report.Draws++

	vg := p.vertices.Bind()
	ok := p.indices.DrawIndirect(gfx.Triangles, &p.elements)
	vg.Release()
	if !ok {
		return fmt.Errorf("%w: indexed indirect", ErrDraw)
	}
	p.report.Draws++

	if !p.vertices.DrawIndirect(gfx.Triangles, &p.arrays) {
		return fmt.Errorf("%w: arrays indirect", ErrDraw)
	}
	p.report.Draws++
	return nil
}

func (p *prober) wait() error {
	return p.fence.WaitContext(p.ctx)
}

func (p *prober) elapsed() error {
	d, ok := p.timer.Elapsed()
	if !ok {
		return ErrPending
	}
	p.report.GPUTime = d
	return nil
}

func (p *prober) readback() error {
	pix := p.target.Texture().Pixels()
	if want := TargetSize * TargetSize * 4; len(pix) != want {
		return fmt.Errorf("%w: read %d bytes, want %d", ErrReadback, len(pix), want)
	}
	return p.gc.CheckError("probe readback")
}
