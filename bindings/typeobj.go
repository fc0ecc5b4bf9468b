package bindings

import (
	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"

	"github.com/dop251/goja"
)

// typeSmob wraps an engine.Type, chained to the owning objfile when
// there is one.  Builtin types have no objfile and stay valid forever.
type typeSmob struct {
	core.Chained
}

// TypeValue wraps a target type for script code.  The result is the
// wrapped value or an exception carrier; on failure nothing is linked.
func (b *Binder) TypeValue(t engine.Type) goja.Value {
	s := &typeSmob{}
	b.rt.InitChained(&s.Chained, b.typeTag)
	v := b.rt.WrapSmob(b.rt.ToValue(s))
	if core.IsException(v) {
		return v
	}
	b.rt.Link(containerOf(t.Objfile()), &s.Chained)
	s.SetPayload(t)
	return v
}

func (b *Binder) typeSmobArg(v goja.Value, pos int, fname string) *typeSmob {
	got := b.rt.UnwrapSmobOrThrow(v, b.typeTag, pos, fname)
	return got.Export().(*typeSmob)
}

func (b *Binder) validTypeArg(v goja.Value, pos int, fname string) engine.Type {
	s := b.typeSmobArg(v, pos, fname)
	p, ok := s.ValidPayload()
	if !ok {
		b.rt.Throw(b.rt.NewInvalidObjectError(fname, pos, v, "Invalid <tether:type>"))
	}
	return p.(engine.Type)
}

// fieldValue renders one composite-type field as a plain script
// object.
func (b *Binder) fieldValue(f engine.Field) goja.Value {
	var t goja.Value = goja.Null()
	if f.Type != nil {
		t = b.orThrow(b.TypeValue(f.Type))
	}
	return b.rt.ToValue(map[string]interface{}{
		"name":   f.Name,
		"type":   t,
		"bitpos": f.BitPos,
	})
}

func (b *Binder) typeFunctions() []core.FunctionSpec {
	return []core.FunctionSpec{
		{
			Name: "lookupType",
			Doc:  "Look a type up by name.  Returns the type or null.",
			Fn: func(call goja.FunctionCall) goja.Value {
				name := b.rt.StringArg(call, 0, "lookupType")
				t, found := b.eng.LookupType(name)
				if !found {
					return goja.Null()
				}
				return b.orThrow(b.TypeValue(t))
			},
		},
		{
			Name: "isType",
			Doc:  "Return true if the value is a type smob.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return b.rt.ToValue(b.rt.IsKind(call.Argument(0), b.typeTag))
			},
		},
		{
			Name: "typeValid",
			Doc:  "Return true if the type's objfile is still loaded.  Builtin types are always valid.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := b.typeSmobArg(call.Argument(0), 1, "typeValid")
				return b.rt.ToValue(s.Valid())
			},
		},
		{
			Name: "typeName",
			Doc:  "Return the type's name.",
			Fn: func(call goja.FunctionCall) goja.Value {
				t := b.validTypeArg(call.Argument(0), 1, "typeName")
				return b.rt.ToValue(t.Name())
			},
		},
		{
			Name: "typeCode",
			Doc:  "Return the type's code as a string: \"int\", \"struct\", \"pointer\", ...",
			Fn: func(call goja.FunctionCall) goja.Value {
				t := b.validTypeArg(call.Argument(0), 1, "typeCode")
				return b.rt.ToValue(t.Code().String())
			},
		},
		{
			Name: "typeSizeof",
			Doc:  "Return the type's size in bytes.",
			Fn: func(call goja.FunctionCall) goja.Value {
				t := b.validTypeArg(call.Argument(0), 1, "typeSizeof")
				return b.rt.ToValue(t.Sizeof())
			},
		},
		{
			Name: "typeNumFields",
			Doc:  "Return how many fields a composite type has.",
			Fn: func(call goja.FunctionCall) goja.Value {
				t := b.validTypeArg(call.Argument(0), 1, "typeNumFields")
				return b.rt.ToValue(t.NumFields())
			},
		},
		{
			Name: "typeFields",
			Doc: "Return an iterator over a composite type's fields.\n\n" +
				"Each element is an object with `name`, `type`, and `bitpos`.  The iterator " +
				"ends with the shared end-of-iteration marker and keeps returning it once " +
				"exhausted.",
			Fn: func(call goja.FunctionCall) goja.Value {
				b.validTypeArg(call.Argument(0), 1, "typeFields")

				next := b.rt.ToValue(func(c goja.FunctionCall) goja.Value {
					it := b.rt.IteratorArg(c.Argument(0), 1, "typeFields.next")
					t := b.validTypeArg(it.Object, 1, "typeFields.next")
					i := int(it.Progress.ToInteger())
					if i >= t.NumFields() {
						return b.rt.EndOfIteration()
					}
					it.Progress = b.rt.ToValue(i + 1)
					return b.fieldValue(t.Field(i))
				})

				return b.orThrow(b.rt.NewIterator(call.Argument(0), b.rt.ToValue(0), next))
			},
		},
	}
}
