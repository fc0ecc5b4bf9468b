package bindings

import (
	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"

	"github.com/dop251/goja"
)

// symtabSmob wraps an engine.Symtab, chained to the symtab's objfile.
type symtabSmob struct {
	core.Chained
}

// SymtabValue wraps a symbol table for script code.  The result is the
// wrapped value or an exception carrier; on failure nothing is linked.
func (b *Binder) SymtabValue(st engine.Symtab) goja.Value {
	s := &symtabSmob{}
	b.rt.InitChained(&s.Chained, b.symtabTag)
	v := b.rt.WrapSmob(b.rt.ToValue(s))
	if core.IsException(v) {
		return v
	}
	b.rt.Link(containerOf(st.Objfile()), &s.Chained)
	s.SetPayload(st)
	return v
}

func (b *Binder) symtabSmobArg(v goja.Value, pos int, fname string) *symtabSmob {
	got := b.rt.UnwrapSmobOrThrow(v, b.symtabTag, pos, fname)
	return got.Export().(*symtabSmob)
}

func (b *Binder) validSymtabArg(v goja.Value, pos int, fname string) engine.Symtab {
	s := b.symtabSmobArg(v, pos, fname)
	p, ok := s.ValidPayload()
	if !ok {
		b.rt.Throw(b.rt.NewInvalidObjectError(fname, pos, v, "Invalid <tether:symtab>"))
	}
	return p.(engine.Symtab)
}

func (b *Binder) symtabFunctions() []core.FunctionSpec {
	return []core.FunctionSpec{
		{
			Name: "lookupSymtab",
			Doc:  "Look a symbol table up by source filename.  Returns the symtab or null.",
			Fn: func(call goja.FunctionCall) goja.Value {
				filename := b.rt.StringArg(call, 0, "lookupSymtab")
				st, found := b.eng.LookupSymtab(filename)
				if !found {
					return goja.Null()
				}
				return b.orThrow(b.SymtabValue(st))
			},
		},
		{
			Name: "isSymtab",
			Doc:  "Return true if the value is a symtab smob.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return b.rt.ToValue(b.rt.IsKind(call.Argument(0), b.symtabTag))
			},
		},
		{
			Name: "symtabValid",
			Doc:  "Return true if the symtab's objfile is still loaded.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := b.symtabSmobArg(call.Argument(0), 1, "symtabValid")
				return b.rt.ToValue(s.Valid())
			},
		},
		{
			Name: "symtabFilename",
			Doc:  "Return the symtab's source filename.",
			Fn: func(call goja.FunctionCall) goja.Value {
				st := b.validSymtabArg(call.Argument(0), 1, "symtabFilename")
				return b.rt.ToValue(st.Filename())
			},
		},
		{
			Name: "symtabObjfile",
			Doc:  "Return the symtab's object file.",
			Fn: func(call goja.FunctionCall) goja.Value {
				st := b.validSymtabArg(call.Argument(0), 1, "symtabObjfile")
				return b.orThrow(b.ObjfileValue(st.Objfile()))
			},
		},
		{
			Name: "symtabNumSymbols",
			Doc:  "Return how many symbols the symtab has.",
			Fn: func(call goja.FunctionCall) goja.Value {
				st := b.validSymtabArg(call.Argument(0), 1, "symtabNumSymbols")
				return b.rt.ToValue(st.NumSymbols())
			},
		},
		{
			Name: "symtabSymbols",
			Doc: "Return an iterator over the symtab's symbols.\n\n" +
				"The iteration is lazy: symbols are wrapped one at a time as the iterator is " +
				"advanced, and the symtab is re-validated on every step, so unloading the " +
				"objfile mid-iteration raises an invalid-object exception instead of touching " +
				"freed data.  The iterator ends with the shared end-of-iteration marker and " +
				"keeps returning it once exhausted.",
			Fn: func(call goja.FunctionCall) goja.Value {
				// Validate eagerly for a prompt error; every
				// advance re-validates anyway.
				b.validSymtabArg(call.Argument(0), 1, "symtabSymbols")

				next := b.rt.ToValue(func(c goja.FunctionCall) goja.Value {
					it := b.rt.IteratorArg(c.Argument(0), 1, "symtabSymbols.next")
					st := b.validSymtabArg(it.Object, 1, "symtabSymbols.next")
					i := int(it.Progress.ToInteger())
					if i >= st.NumSymbols() {
						return b.rt.EndOfIteration()
					}
					it.Progress = b.rt.ToValue(i + 1)
					return b.orThrow(b.SymbolValue(st.SymbolAt(i)))
				})

				return b.orThrow(b.rt.NewIterator(call.Argument(0), b.rt.ToValue(0), next))
			},
		},
	}
}
