package gfx

import (
	"fmt"
	"unsafe"
)

// Target is a named binding slot of the graphics context. Values are the
// OpenGL enums of the corresponding bind targets.
type Target uint32

// Buffer bind targets.
const (
	ArrayBuffer             Target = 0x8892
	ElementArrayBuffer      Target = 0x8893
	PixelPackBuffer         Target = 0x88EB
	PixelUnpackBuffer       Target = 0x88EC
	UniformBufferTarget     Target = 0x8A11
	TextureBuffer           Target = 0x8C2A
	TransformFeedbackBuffer Target = 0x8C8E
	CopyReadBuffer          Target = 0x8F36
	CopyWriteBuffer         Target = 0x8F37
	DrawIndirectBuffer      Target = 0x8F3F
	ShaderStorageBuffer     Target = 0x90D2
	DispatchIndirectBuffer  Target = 0x90EE
	QueryBuffer             Target = 0x9192
	AtomicCounterBuffer     Target = 0x92C0
)

// Object bind targets. VertexArrayTarget and ProgramTarget are the binding
// queries of the vertex array and current program, which have no bind target
// of their own.
const (
	Texture2D         Target = 0x0DE1
	VertexArrayTarget Target = 0x85B5
	ProgramTarget     Target = 0x8B8D
	FrameBufferTarget Target = 0x8D40
)

var targetNames = map[Target]string{
	ArrayBuffer:             "ARRAY_BUFFER",
	ElementArrayBuffer:      "ELEMENT_ARRAY_BUFFER",
	PixelPackBuffer:         "PIXEL_PACK_BUFFER",
	PixelUnpackBuffer:       "PIXEL_UNPACK_BUFFER",
	UniformBufferTarget:     "UNIFORM_BUFFER",
	TextureBuffer:           "TEXTURE_BUFFER",
	TransformFeedbackBuffer: "TRANSFORM_FEEDBACK_BUFFER",
	CopyReadBuffer:          "COPY_READ_BUFFER",
	CopyWriteBuffer:         "COPY_WRITE_BUFFER",
	DrawIndirectBuffer:      "DRAW_INDIRECT_BUFFER",
	ShaderStorageBuffer:     "SHADER_STORAGE_BUFFER",
	DispatchIndirectBuffer:  "DISPATCH_INDIRECT_BUFFER",
	QueryBuffer:             "QUERY_BUFFER",
	AtomicCounterBuffer:     "ATOMIC_COUNTER_BUFFER",
	Texture2D:               "TEXTURE_2D",
	VertexArrayTarget:       "VERTEX_ARRAY",
	ProgramTarget:           "PROGRAM",
	FrameBufferTarget:       "FRAMEBUFFER",
}

func (t Target) String() string {
	if s, ok := targetNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Target(0x%04X)", uint32(t))
}

// IsBuffer reports whether t is a buffer bind target.
func (t Target) IsBuffer() bool {
	switch t {
	case Texture2D, VertexArrayTarget, ProgramTarget, FrameBufferTarget:
		return false
	}
	_, ok := targetNames[t]
	return ok
}

// Indexed reports whether t has indexed binding points usable with
// BindBufferBase.
func (t Target) Indexed() bool {
	switch t {
	case UniformBufferTarget, ShaderStorageBuffer, TransformFeedbackBuffer, AtomicCounterBuffer:
		return true
	}
	return false
}

// Usage is the allocation and update strategy hint of a buffer.
type Usage uint32

// Buffer usages.
const (
	StreamDraw  Usage = 0x88E0
	StreamRead  Usage = 0x88E1
	StreamCopy  Usage = 0x88E2
	StaticDraw  Usage = 0x88E4
	StaticRead  Usage = 0x88E5
	StaticCopy  Usage = 0x88E6
	DynamicDraw Usage = 0x88E8
	DynamicRead Usage = 0x88E9
	DynamicCopy Usage = 0x88EA
)

// Usages lists every buffer usage.
var Usages = []Usage{
	StreamDraw, StreamRead, StreamCopy,
	StaticDraw, StaticRead, StaticCopy,
	DynamicDraw, DynamicRead, DynamicCopy,
}

// Dynamic reports whether u is one of the dynamic usages, whose buffers
// reserve their capacity first and are then written by sub-range.
func (u Usage) Dynamic() bool {
	return u == DynamicDraw || u == DynamicRead || u == DynamicCopy
}

// Valid reports whether u is a known usage.
func (u Usage) Valid() bool {
	return u >= StreamDraw && u <= DynamicCopy && u != 0x88E3 && u != 0x88E7
}

func (u Usage) String() string {
	switch u {
	case StreamDraw:
		return "STREAM_DRAW"
	case StreamRead:
		return "STREAM_READ"
	case StreamCopy:
		return "STREAM_COPY"
	case StaticDraw:
		return "STATIC_DRAW"
	case StaticRead:
		return "STATIC_READ"
	case StaticCopy:
		return "STATIC_COPY"
	case DynamicDraw:
		return "DYNAMIC_DRAW"
	case DynamicRead:
		return "DYNAMIC_READ"
	case DynamicCopy:
		return "DYNAMIC_COPY"
	}
	return fmt.Sprintf("Usage(0x%04X)", uint32(u))
}

// Access selects how mapped memory may be used. The values are the OpenGL
// MapBufferRange access bits.
type Access uint32

// Mapping access modes.
const (
	ReadOnly  Access = 0x0001
	WriteOnly Access = 0x0002
	ReadWrite        = ReadOnly | WriteOnly
	// Invalidate may be combined with WriteOnly to discard the previous
	// contents of the mapped range.
	Invalidate Access = 0x0004
)

func (a Access) Readable() bool { return a&ReadOnly != 0 }
func (a Access) Writable() bool { return a&WriteOnly != 0 }

func (a Access) String() string {
	var s string
	switch a &^ Invalidate {
	case ReadOnly:
		s = "READ_ONLY"
	case WriteOnly:
		s = "WRITE_ONLY"
	case ReadWrite:
		s = "READ_WRITE"
	default:
		s = fmt.Sprintf("Access(0x%X)", uint32(a))
	}
	if a&Invalidate != 0 {
		s += "|INVALIDATE"
	}
	return s
}

// Type is a component data type.
type Type uint32

// Component types.
const (
	Byte          Type = 0x1400
	UnsignedByte  Type = 0x1401
	Short         Type = 0x1402
	UnsignedShort Type = 0x1403
	Int           Type = 0x1404
	UnsignedInt   Type = 0x1405
	Float         Type = 0x1406
	Double        Type = 0x140A
	HalfFloat     Type = 0x140B
)

// Size returns the size in bytes of one component of type t, or 0 when t is
// unknown.
func (t Type) Size() int {
	switch t {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort, HalfFloat:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	case Double:
		return 8
	}
	return 0
}

// Integer reports whether t is an integer component type.
func (t Type) Integer() bool {
	switch t {
	case Byte, UnsignedByte, Short, UnsignedShort, Int, UnsignedInt:
		return true
	}
	return false
}

func (t Type) String() string {
	switch t {
	case Byte:
		return "BYTE"
	case UnsignedByte:
		return "UNSIGNED_BYTE"
	case Short:
		return "SHORT"
	case UnsignedShort:
		return "UNSIGNED_SHORT"
	case Int:
		return "INT"
	case UnsignedInt:
		return "UNSIGNED_INT"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case HalfFloat:
		return "HALF_FLOAT"
	}
	return fmt.Sprintf("Type(0x%04X)", uint32(t))
}

// Mode is a primitive drawing mode.
type Mode uint32

// Primitive modes.
const (
	Points        Mode = 0x0000
	Lines         Mode = 0x0001
	LineLoop      Mode = 0x0002
	LineStrip     Mode = 0x0003
	Triangles     Mode = 0x0004
	TriangleStrip Mode = 0x0005
	TriangleFan   Mode = 0x0006
)

func (m Mode) String() string {
	switch m {
	case Points:
		return "POINTS"
	case Lines:
		return "LINES"
	case LineLoop:
		return "LINE_LOOP"
	case LineStrip:
		return "LINE_STRIP"
	case Triangles:
		return "TRIANGLES"
	case TriangleStrip:
		return "TRIANGLE_STRIP"
	case TriangleFan:
		return "TRIANGLE_FAN"
	}
	return fmt.Sprintf("Mode(%d)", uint32(m))
}

// ShaderKind is the pipeline stage of a shader.
type ShaderKind uint32

// Shader stages.
const (
	FragmentShader ShaderKind = 0x8B30
	VertexShader   ShaderKind = 0x8B31
	GeometryShader ShaderKind = 0x8DD9
	ComputeShader  ShaderKind = 0x91B9
)

func (k ShaderKind) String() string {
	switch k {
	case FragmentShader:
		return "fragment"
	case VertexShader:
		return "vertex"
	case GeometryShader:
		return "geometry"
	case ComputeShader:
		return "compute"
	}
	return fmt.Sprintf("ShaderKind(0x%04X)", uint32(k))
}

// PixelFormat is the client side layout of texture pixels. Every format
// uses unsigned byte components.
type PixelFormat uint32

// Pixel formats.
const (
	Red   PixelFormat = 0x1903
	Alpha PixelFormat = 0x1906
	RGB   PixelFormat = 0x1907
	RGBA  PixelFormat = 0x1908
)

// BytesPerPixel returns the size of one pixel, or 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case Red, Alpha:
		return 1
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// ErrorCode is a value returned by the driver's last error query.
type ErrorCode uint32

// Driver error codes.
const (
	NoError                     ErrorCode = 0
	InvalidEnum                 ErrorCode = 0x0500
	InvalidValue                ErrorCode = 0x0501
	InvalidOperation            ErrorCode = 0x0502
	StackOverflow               ErrorCode = 0x0503
	StackUnderflow              ErrorCode = 0x0504
	OutOfMemory                 ErrorCode = 0x0505
	InvalidFramebufferOperation ErrorCode = 0x0506
)

func (e ErrorCode) String() string {
	switch e {
	case NoError:
		return "NO_ERROR"
	case InvalidEnum:
		return "INVALID_ENUM"
	case InvalidValue:
		return "INVALID_VALUE"
	case InvalidOperation:
		return "INVALID_OPERATION"
	case StackOverflow:
		return "STACK_OVERFLOW"
	case StackUnderflow:
		return "STACK_UNDERFLOW"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("ErrorCode(0x%04X)", uint32(e))
}

// BufferParam names a buffer parameter query.
type BufferParam uint32

// Buffer parameters.
const (
	BufferSize   BufferParam = 0x8764
	BufferUsage  BufferParam = 0x8765
	BufferMapped BufferParam = 0x88BC
)

// AttribParam names a vertex attribute parameter query.
type AttribParam uint32

// Vertex attribute parameters.
const (
	AttribEnabled       AttribParam = 0x8622
	AttribSize          AttribParam = 0x8623
	AttribStride        AttribParam = 0x8624
	AttribType          AttribParam = 0x8625
	AttribNormalized    AttribParam = 0x886A
	AttribBufferBinding AttribParam = 0x889F
	AttribInteger       AttribParam = 0x88FD
	AttribDivisor       AttribParam = 0x88FE
)

// ObjectParam names a shader or program parameter query.
type ObjectParam uint32

// Shader and program parameters.
const (
	CompileStatus  ObjectParam = 0x8B81
	LinkStatus     ObjectParam = 0x8B82
	InfoLogLength  ObjectParam = 0x8B84
	AttachedCount  ObjectParam = 0x8B85
	ActiveBlocks   ObjectParam = 0x8A36
	ActiveUniforms ObjectParam = 0x8B86
)

// BlockParam names a uniform block parameter query.
type BlockParam uint32

// Uniform block parameters.
const (
	BlockBinding  BlockParam = 0x8A3F
	BlockDataSize BlockParam = 0x8A40
)

// InvalidBlockIndex is returned by the driver for unknown uniform blocks.
const InvalidBlockIndex = ^uint32(0)

// SizeOf returns the size in bytes of one value of type T.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Bytes reinterprets a slice of fixed size values as its raw bytes without
// copying. T must not contain pointers.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*SizeOf[T]())
}

// overlay reinterprets raw bytes as a slice of fixed size values. Trailing
// bytes that do not fill a whole value are ignored.
func overlay[T any](b []byte) []T {
	size := SizeOf[T]()
	if size == 0 || len(b) < size {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/size)
}
