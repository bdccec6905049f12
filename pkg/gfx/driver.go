package gfx

import "time"

// StateDriver exposes the global state of the graphics context.
type StateDriver interface {
	// Bound returns the id currently bound to target, 0 when none.
	Bound(target Target) uint32
	// IndexedBound returns the buffer bound to an indexed binding point.
	IndexedBound(target Target, index uint32) uint32
	// GetError returns and clears one pending error, NoError when none.
	GetError() ErrorCode
	MaxVertexAttribs() int
	MaxUniformBufferBindings() int
}

// BufferDriver covers buffer objects. Every call except the id management
// ones operates on the buffer currently bound to the given target.
type BufferDriver interface {
	GenBuffer() uint32
	DeleteBuffer(id uint32)
	IsBuffer(id uint32) bool
	BindBuffer(target Target, id uint32)
	BindBufferBase(target Target, index, id uint32)
	BindBufferRange(target Target, index, id uint32, offset, size int)
	// BufferData allocates size bytes; data may be nil or exactly size long.
	BufferData(target Target, size int, data []byte, usage Usage)
	BufferSubData(target Target, offset int, data []byte)
	GetBufferSubData(target Target, offset int, out []byte)
	CopyBufferSubData(read, write Target, readOffset, writeOffset, size int)
	BufferParameter(target Target, param BufferParam) int
	// MapBufferRange returns memory aliasing the buffer range, or nil when
	// the driver refuses the mapping.
	MapBufferRange(target Target, offset, length int, access Access) []byte
	// UnmapBuffer releases the mapping, reporting false when the buffer
	// contents became corrupt while mapped.
	UnmapBuffer(target Target) bool
}

// VertexArrayDriver covers vertex array objects and draw calls. Attribute
// calls operate on the bound vertex array.
type VertexArrayDriver interface {
	GenVertexArray() uint32
	DeleteVertexArray(id uint32)
	IsVertexArray(id uint32) bool
	BindVertexArray(id uint32)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, count int32, typ Type, normalized bool, stride, offset int)
	VertexAttribIPointer(index uint32, count int32, typ Type, stride, offset int)
	VertexAttribDivisor(index, divisor uint32)
	VertexAttrib(index uint32, param AttribParam) int
	BindVertexBuffer(bindingIndex, id uint32, offset, stride int)

	DrawArrays(mode Mode, first, count int)
	DrawArraysInstanced(mode Mode, first, count, instances int)
	DrawElements(mode Mode, count int, typ Type, offset int)
	DrawElementsInstanced(mode Mode, count int, typ Type, offset, instances int)
	// The indirect draws read their parameters from the bound
	// DrawIndirectBuffer at offset.
	DrawArraysIndirect(mode Mode, offset int)
	DrawElementsIndirect(mode Mode, typ Type, offset int)
}

// ProgramDriver covers shaders, programs and program reflection.
type ProgramDriver interface {
	CreateShader(kind ShaderKind) uint32
	DeleteShader(id uint32)
	IsShader(id uint32) bool
	ShaderSource(id uint32, source string)
	CompileShader(id uint32)
	ShaderParameter(id uint32, param ObjectParam) int
	ShaderInfoLog(id uint32) string

	CreateProgram() uint32
	DeleteProgram(id uint32)
	IsProgram(id uint32) bool
	AttachShader(program, shader uint32)
	LinkProgram(id uint32)
	ProgramParameter(id uint32, param ObjectParam) int
	ProgramInfoLog(id uint32) string
	UseProgram(id uint32)

	// UniformBlockIndex returns InvalidBlockIndex for unknown blocks.
	UniformBlockIndex(program uint32, name string) uint32
	UniformBlockBinding(program, index, point uint32)
	UniformBlockParameter(program, index uint32, param BlockParam) int
	// UniformLocation returns -1 for unknown uniforms.
	UniformLocation(program uint32, name string) int32
	// Uniformf sets a float, vec2, vec3 or vec4 uniform of the current
	// program from 1 to 4 values.
	Uniformf(location int32, v []float32)
}

// WaitResult is the outcome of waiting on a fence.
type WaitResult int

// Fence wait outcomes.
const (
	WaitFailed WaitResult = iota
	WaitTimeout
	WaitSignaled
	WaitAlreadySignaled
)

func (r WaitResult) String() string {
	switch r {
	case WaitFailed:
		return "failed"
	case WaitTimeout:
		return "timeout"
	case WaitSignaled:
		return "signaled"
	case WaitAlreadySignaled:
		return "already signaled"
	}
	return "unknown"
}

// Done reports whether the fence was signaled.
func (r WaitResult) Done() bool {
	return r == WaitSignaled || r == WaitAlreadySignaled
}

// SyncDriver covers fences and timer queries.
type SyncDriver interface {
	FenceSync() uintptr
	IsSync(sync uintptr) bool
	DeleteSync(sync uintptr)
	// ClientWaitSync blocks for up to timeout, flushing pending commands
	// first when flush is set.
	ClientWaitSync(sync uintptr, flush bool, timeout time.Duration) WaitResult
	SyncSignaled(sync uintptr) bool

	GenQuery() uint32
	DeleteQuery(id uint32)
	IsQuery(id uint32) bool
	// QueryCounter records the GPU timestamp into the query.
	QueryCounter(id uint32)
	QueryResultAvailable(id uint32) bool
	QueryResult(id uint32) uint64
}

// TextureDriver covers textures, samplers and framebuffers.
type TextureDriver interface {
	GenTexture() uint32
	DeleteTexture(id uint32)
	IsTexture(id uint32) bool
	ActiveTexture(unit uint32)
	BindTexture(target Target, id uint32)
	// TexImage2D allocates the texture, uploading data when it is not nil.
	TexImage2D(target Target, width, height int, format PixelFormat, data []byte)
	// TexImage2DBuffer allocates the texture from the bound
	// PixelUnpackBuffer at offset.
	TexImage2DBuffer(target Target, width, height int, format PixelFormat, offset int)
	TexSubImage2D(target Target, x, y, width, height int, format PixelFormat, data []byte)
	GetTexImage(target Target, format PixelFormat, out []byte)
	GenerateMipmap(target Target)
	TexParameter(target Target, param, value int32)

	GenSampler() uint32
	DeleteSampler(id uint32)
	IsSampler(id uint32) bool
	BindSampler(unit, id uint32)
	SamplerParameter(id uint32, param, value int32)

	GenFramebuffer() uint32
	DeleteFramebuffer(id uint32)
	IsFramebuffer(id uint32) bool
	BindFramebuffer(id uint32)
	// FramebufferTexture2D attaches a texture to the bound framebuffer.
	FramebufferTexture2D(attachment uint32, texTarget Target, texture uint32)
	FramebufferComplete() bool
}

// Driver is the complete graphics API consumed by this package.
type Driver interface {
	StateDriver
	BufferDriver
	VertexArrayDriver
	ProgramDriver
	SyncDriver
	TextureDriver
}
