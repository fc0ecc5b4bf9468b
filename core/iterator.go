package core

// Iterators are for producers where computing a list of everything up
// front is too expensive, or not even possible (live registers, remote
// memory).  All iteration state is a first-class value: the subject,
// an arbitrary progress cursor the advance procedure maintains, and
// the advance procedure itself.  There is deliberately no "has next"
// operation; callers advance and compare against whatever end marker
// the producer chose.  EndOfIteration is a convenient shared marker,
// not a requirement.

import (
	"github.com/dop251/goja"
)

// Iterator is the generic enumeration smob: a subject, a mutable
// progress cursor, and a one-argument advance procedure.
type Iterator struct {
	Base

	// Object is the thing being iterated over.  Read-only.
	Object goja.Value

	// Progress is the cursor.  Its shape is defined by the advance
	// procedure, which reads and replaces it.
	Progress goja.Value

	// nextV is the advance procedure as a value (for printing and
	// for handing back to script code), next the callable form.
	nextV goja.Value
	next  goja.Callable
}

// endMarker is the shared end-of-iteration sentinel kind.
type endMarker struct {
	Base
}

// EndOfIteration returns the runtime's shared end-of-iteration marker.
// Producers in this module use it and keep returning it once the
// iteration is exhausted.  Foreign producers may use any sentinel they
// like.
func (r *Runtime) EndOfIteration() goja.Value {
	return r.end
}

// IsEndOfIteration reports whether the value is the shared marker.
func (r *Runtime) IsEndOfIteration(v goja.Value) bool {
	return r.IsKind(v, r.endTag)
}

// NewIterator makes an iterator smob and passes it through the
// native-to-script hook.  The result may be an Exception carrier (from
// the hook) and must be checked.  next must be callable; if it isn't,
// the result is a wrong-type-arg carrier.
func (r *Runtime) NewIterator(object, progress, next goja.Value) goja.Value {
	fn, is := goja.AssertFunction(next)
	if !is {
		return r.vm.ToValue(r.NewTypeError("makeIterator", 3, next, "function"))
	}
	it := &Iterator{
		Object:   object,
		Progress: progress,
		nextV:    next,
		next:     fn,
	}
	r.InitSmob(&it.Base, r.iteratorTag)
	return r.WrapSmob(r.vm.ToValue(it))
}

// IteratorArg returns the iterator at an argument position, running
// the inbound hook if needed, throwing on mismatch.
func (r *Runtime) IteratorArg(v goja.Value, pos int, fname string) *Iterator {
	got := r.UnwrapSmobOrThrow(v, r.iteratorTag, pos, fname)
	return got.Export().(*Iterator)
}

// Advance invokes the iterator's advance procedure through the
// safe-call boundary, passing the iterator itself.  The result is the
// next value, the producer's end marker, or an Exception carrier if
// the advance procedure failed.
func (r *Runtime) Advance(iter goja.Value) goja.Value {
	it, is := iter.Export().(*Iterator)
	if !is {
		return r.vm.ToValue(r.NewTypeError("iteratorNext", 1, iter, "tether:iterator"))
	}
	return r.SafeCall(it.next, goja.Undefined(), iter)
}

// Script surface.

func (r *Runtime) iteratorFunctions() []FunctionSpec {
	return []FunctionSpec{
		{
			Name: "makeIterator",
			Doc: "Create an iterator.\n\nArguments: object, progress, next\n\n" +
				"- `object`: the object to iterate over\n" +
				"- `progress`: an object used to track the progress of the iteration\n" +
				"- `next`: a procedure of one argument, the iterator; returns the next element " +
				"or a producer-chosen value marking the end of the iteration",
			Fn: func(call goja.FunctionCall) goja.Value {
				res := r.NewIterator(call.Argument(0), call.Argument(1), call.Argument(2))
				if e, is := AsException(res); is {
					r.Throw(e)
				}
				return res
			},
		},
		{
			Name: "isIterator",
			Doc:  "Return true if the value is an iterator.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return r.vm.ToValue(r.IsKind(call.Argument(0), r.iteratorTag))
			},
		},
		{
			Name: "iteratorObject",
			Doc:  "Return the object being iterated over.",
			Fn: func(call goja.FunctionCall) goja.Value {
				it := r.IteratorArg(call.Argument(0), 1, "iteratorObject")
				return it.Object
			},
		},
		{
			Name: "iteratorProgress",
			Doc:  "Return the progress object of the iterator.",
			Fn: func(call goja.FunctionCall) goja.Value {
				it := r.IteratorArg(call.Argument(0), 1, "iteratorProgress")
				return it.Progress
			},
		},
		{
			Name: "setIteratorProgress",
			Doc:  "Set the progress object of the iterator.",
			Fn: func(call goja.FunctionCall) goja.Value {
				it := r.IteratorArg(call.Argument(0), 1, "setIteratorProgress")
				it.Progress = call.Argument(1)
				return goja.Undefined()
			},
		},
		{
			Name: "iteratorNext",
			Doc: "Invoke the iterator's next procedure and return its result: the next element, " +
				"the producer's end marker, or an exception carrier if the procedure failed.",
			Fn: func(call goja.FunctionCall) goja.Value {
				got := r.UnwrapSmobOrThrow(call.Argument(0), r.iteratorTag, 1, "iteratorNext")
				return r.Advance(got)
			},
		},
		{
			Name: "endOfIteration",
			Doc:  "Return the shared end-of-iteration marker used by this module's own producers.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return r.end
			},
		},
		{
			Name: "isEndOfIteration",
			Doc:  "Return true if the value is the shared end-of-iteration marker.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return r.vm.ToValue(r.IsEndOfIteration(call.Argument(0)))
			},
		},
	}
}
