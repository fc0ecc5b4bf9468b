package core

import (
	"github.com/dop251/goja"
)

// Smob is implemented by every wrapper value, by embedding Base.
type Smob interface {
	SmobBase() *Base
}

// Base is the common header of every wrapper value.  It carries the
// kind tag and the "aux" extension slot.  The aux slot belongs to the
// application; the framework stores it and hands it back, nothing
// more.
type Base struct {
	tag Tag
	aux goja.Value
}

// SmobBase makes any embedder a Smob.
func (b *Base) SmobBase() *Base {
	return b
}

// Tag returns the wrapper's kind tag.
func (b *Base) Tag() Tag {
	return b.tag
}

// Aux returns the extension slot, undefined if never set.
func (b *Base) Aux() goja.Value {
	if b.aux == nil {
		return goja.Undefined()
	}
	return b.aux
}

// SetAux stores the extension slot.
func (b *Base) SetAux(v goja.Value) {
	b.aux = v
}

// InitSmob initializes a wrapper header for the given kind.  Call it
// once, when the wrapper is constructed.
func (r *Runtime) InitSmob(b *Base, tag Tag) {
	b.tag = tag
	b.aux = goja.Undefined()
}

// smobArg returns the smob at an argument position, running the
// inbound hook if needed.  Throws a wrong-type-arg exception when the
// value isn't (convertible to) one of ours.
func (r *Runtime) smobArg(v goja.Value, pos int, fname string) Smob {
	got := r.UnwrapSmobOrThrow(v, AnyTag, pos, fname)
	s := smobOf(got)
	if s == nil {
		r.Throw(r.NewTypeError(fname, pos, v, "any smob"))
	}
	return s
}

// Script surface for the base wrapper operations.

func (r *Runtime) smobFunctions() []FunctionSpec {
	return []FunctionSpec{
		{
			Name: "smobKind",
			Doc:  "Return the kind of the smob, e.g. `<tether:iterator>`, as a string.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := r.smobArg(call.Argument(0), 1, "smobKind")
				return r.vm.ToValue("<" + r.tagNames[s.SmobBase().tag] + ">")
			},
		},
		{
			Name: "isSmob",
			Doc:  "Return true if the value is any smob of this runtime.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return r.vm.ToValue(r.IsSmob(call.Argument(0)))
			},
		},
		{
			Name: "smobAux",
			Doc:  "Return the \"aux\" slot of the smob.  The slot is not used by the framework; the application is free to use it.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := r.smobArg(call.Argument(0), 1, "smobAux")
				return s.SmobBase().Aux()
			},
		},
		{
			Name: "setSmobAux",
			Doc:  "Set the \"aux\" slot of any smob.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := r.smobArg(call.Argument(0), 1, "setSmobAux")
				s.SmobBase().SetAux(call.Argument(1))
				return goja.Undefined()
			},
		},
	}
}
