package bindings

import (
	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"

	"github.com/dop251/goja"
)

// symbolSmob wraps an engine.Symbol, chained to the symbol's objfile.
type symbolSmob struct {
	core.Chained
}

// SymbolValue wraps a symbol for script code.  The result is the
// wrapped value or an exception carrier (from the native-to-script
// hook).  The wrapper is registered with the life-cycle chain of the
// symbol's objfile, if any; on failure nothing is linked, so the
// conversion has no side effects until it is known to have worked.
func (b *Binder) SymbolValue(sym engine.Symbol) goja.Value {
	s := &symbolSmob{}
	b.rt.InitChained(&s.Chained, b.symbolTag)
	v := b.rt.WrapSmob(b.rt.ToValue(s))
	if core.IsException(v) {
		return v
	}
	b.rt.Link(containerOf(sym.Objfile()), &s.Chained)
	s.SetPayload(sym)
	return v
}

func (b *Binder) symbolSmobArg(v goja.Value, pos int, fname string) *symbolSmob {
	got := b.rt.UnwrapSmobOrThrow(v, b.symbolTag, pos, fname)
	return got.Export().(*symbolSmob)
}

// validSymbolArg returns the symbol payload or throws an
// invalid-object exception.  All access to a symbol payload goes
// through here.
func (b *Binder) validSymbolArg(v goja.Value, pos int, fname string) engine.Symbol {
	s := b.symbolSmobArg(v, pos, fname)
	p, ok := s.ValidPayload()
	if !ok {
		b.rt.Throw(b.rt.NewInvalidObjectError(fname, pos, v, "Invalid <tether:symbol>"))
	}
	return p.(engine.Symbol)
}

func (b *Binder) symbolFunctions() []core.FunctionSpec {
	return []core.FunctionSpec{
		{
			Name: "lookupSymbol",
			Doc:  "Look a symbol up by name.  Returns the symbol or null.",
			Fn: func(call goja.FunctionCall) goja.Value {
				name := b.rt.StringArg(call, 0, "lookupSymbol")
				sym, found := b.eng.LookupSymbol(name)
				if !found {
					return goja.Null()
				}
				return b.orThrow(b.SymbolValue(sym))
			},
		},
		{
			Name: "isSymbol",
			Doc:  "Return true if the value is a symbol smob.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return b.rt.ToValue(b.rt.IsKind(call.Argument(0), b.symbolTag))
			},
		},
		{
			Name: "symbolValid",
			Doc:  "Return true if the symbol's objfile is still loaded.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := b.symbolSmobArg(call.Argument(0), 1, "symbolValid")
				return b.rt.ToValue(s.Valid())
			},
		},
		{
			Name: "symbolName",
			Doc:  "Return the symbol's linkage name.",
			Fn: func(call goja.FunctionCall) goja.Value {
				sym := b.validSymbolArg(call.Argument(0), 1, "symbolName")
				return b.rt.ToValue(sym.Name())
			},
		},
		{
			Name: "symbolPrintName",
			Doc:  "Return the symbol's name as it should be shown to a user.",
			Fn: func(call goja.FunctionCall) goja.Value {
				sym := b.validSymbolArg(call.Argument(0), 1, "symbolPrintName")
				return b.rt.ToValue(sym.PrintName())
			},
		},
		{
			Name: "symbolSymtab",
			Doc:  "Return the symbol table the symbol came from, or null.",
			Fn: func(call goja.FunctionCall) goja.Value {
				sym := b.validSymbolArg(call.Argument(0), 1, "symbolSymtab")
				st := sym.Symtab()
				if st == nil {
					return goja.Null()
				}
				return b.orThrow(b.SymtabValue(st))
			},
		},
		{
			Name: "symbolObjfile",
			Doc:  "Return the symbol's object file, or null.",
			Fn: func(call goja.FunctionCall) goja.Value {
				sym := b.validSymbolArg(call.Argument(0), 1, "symbolObjfile")
				of := sym.Objfile()
				if of == nil {
					return goja.Null()
				}
				return b.orThrow(b.ObjfileValue(of))
			},
		},
		{
			Name: "symbolType",
			Doc:  "Return the symbol's type, or null when unknown.",
			Fn: func(call goja.FunctionCall) goja.Value {
				sym := b.validSymbolArg(call.Argument(0), 1, "symbolType")
				t := sym.Type()
				if t == nil {
					return goja.Null()
				}
				return b.orThrow(b.TypeValue(t))
			},
		},
	}
}
