package gfx

// Bindable is a resource that occupies a bind target while current.
type Bindable interface {
	ID() uint32
	Target() Target
	handle() *Handle
}

// Binder is a scoped binding of one resource to one target. A Binder that
// found its resource already bound does nothing, so nested scopes over the
// same resource leave the outer binding in place:
//
//	outer := gfx.Bind(buf)
//	inner := gfx.Bind(buf) // no-op, buf is already bound
//	inner.Release()        // buf stays bound
//	outer.Release()        // the previous binding is restored
type Binder struct {
	ctx      *Context
	target   Target
	kind     ObjectType
	id       uint32
	prev     uint32
	owns     bool
	released bool
}

// Bind binds r to its own target.
func Bind(r Bindable) *Binder {
	return BindAs(r, r.Target())
}

// BindAs binds r to target, which may differ from r's own target, e.g. a
// buffer bound to CopyReadBuffer. If the binding does not take, r is marked
// with BindFailed.
func BindAs(r Bindable, target Target) *Binder {
	h := r.handle()
	b := &Binder{ctx: h.ctx, target: target, kind: h.kind, id: h.id}
	if h.ctx == nil || h.id == 0 {
		b.released = true
		return b
	}
	cur := h.ctx.Bound(target)
	if cur == h.id {
		return b
	}
	b.prev = cur
	b.owns = true
	h.ctx.bind(target, h.id)
	if h.ctx.Bound(target) != h.id || !h.ctx.isLive(h.kind, h.id) {
		h.fail(BindFailed)
	}
	return b
}

// Owns reports whether the binder performed the binding and will undo it.
func (b *Binder) Owns() bool {
	return b.owns && !b.released
}

// Target returns the bound target.
func (b *Binder) Target() Target {
	return b.target
}

// Release undoes the binding if this binder made it, restoring whatever was
// bound before. It is safe to call more than once.
func (b *Binder) Release() {
	if b == nil || b.released {
		return
	}
	b.released = true
	if !b.owns {
		return
	}
	prev := b.prev
	// the previous object may have been deleted while we held the target
	if prev != 0 && !b.ctx.isLive(b.kind, prev) {
		prev = 0
	}
	b.ctx.bind(b.target, prev)
}

// WithBound runs fn while r is bound.
func WithBound(r Bindable, fn func()) {
	b := Bind(r)
	defer b.Release()
	fn()
}
