package core

import (
	"github.com/dop251/goja"
)

// FunctionSpec describes one script-visible function: its name, its
// doc string (Markdown), and the implementation.  Installation goes
// through Define so the same tables can later feed doc generation.
type FunctionSpec struct {
	Name string
	Doc  string
	Fn   func(goja.FunctionCall) goja.Value
}

// Define installs functions as globals in the embedded runtime and
// records their specs.
func (r *Runtime) Define(specs []FunctionSpec) {
	for _, s := range specs {
		if err := r.vm.Set(s.Name, s.Fn); err != nil {
			// Set only fails for unusable names, which is a
			// programming error in the function table.
			panic(err)
		}
	}
	r.funcs = append(r.funcs, specs...)
}

// Functions returns everything installed via Define, in installation
// order.
func (r *Runtime) Functions() []FunctionSpec {
	out := make([]FunctionSpec, len(r.funcs))
	copy(out, r.funcs)
	return out
}

// Argument helpers for script-visible functions.  idx is the 0-based
// argument index; reported positions are 1-based.

// StringArg returns the string at idx or throws a wrong-type-arg
// exception.
func (r *Runtime) StringArg(call goja.FunctionCall, idx int, fname string) string {
	v := call.Argument(idx)
	s, is := v.Export().(string)
	if !is {
		r.Throw(r.NewTypeError(fname, idx+1, v, "string"))
	}
	return s
}

// IntArg returns the integer at idx or throws a wrong-type-arg
// exception.
func (r *Runtime) IntArg(call goja.FunctionCall, idx int, fname string) int64 {
	v := call.Argument(idx)
	switch v.Export().(type) {
	case int64, int, float64:
		return v.ToInteger()
	}
	r.Throw(r.NewTypeError(fname, idx+1, v, "integer"))
	return 0 // not reached
}

// CallableArg returns the function at idx or throws a wrong-type-arg
// exception.
func (r *Runtime) CallableArg(call goja.FunctionCall, idx int, fname string) goja.Callable {
	v := call.Argument(idx)
	fn, is := goja.AssertFunction(v)
	if !is {
		r.Throw(r.NewTypeError(fname, idx+1, v, "function"))
	}
	return fn
}
