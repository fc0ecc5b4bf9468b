package bindings

import (
	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"

	"github.com/dop251/goja"
)

// objfileSmob wraps an engine.Objfile.  It is chained to the objfile
// itself, so unloading the objfile invalidates its own wrapper along
// with everything else pointing into it.
type objfileSmob struct {
	core.Chained
}

// ObjfileValue wraps an object file for script code.  The result is
// the wrapped value or an exception carrier (from the native-to-script
// hook); on failure nothing is linked.
func (b *Binder) ObjfileValue(of engine.Objfile) goja.Value {
	o := &objfileSmob{}
	b.rt.InitChained(&o.Chained, b.objfileTag)
	v := b.rt.WrapSmob(b.rt.ToValue(o))
	if core.IsException(v) {
		return v
	}
	b.rt.Link(of, &o.Chained)
	o.SetPayload(of)
	return v
}

func (b *Binder) objfileSmobArg(v goja.Value, pos int, fname string) *objfileSmob {
	got := b.rt.UnwrapSmobOrThrow(v, b.objfileTag, pos, fname)
	return got.Export().(*objfileSmob)
}

func (b *Binder) validObjfileArg(v goja.Value, pos int, fname string) engine.Objfile {
	o := b.objfileSmobArg(v, pos, fname)
	p, ok := o.ValidPayload()
	if !ok {
		b.rt.Throw(b.rt.NewInvalidObjectError(fname, pos, v, "Invalid <tether:objfile>"))
	}
	return p.(engine.Objfile)
}

func (b *Binder) objfileFunctions() []core.FunctionSpec {
	return []core.FunctionSpec{
		{
			Name: "objfiles",
			Doc:  "Return an array of the currently loaded object files.",
			Fn: func(call goja.FunctionCall) goja.Value {
				ofs := b.eng.Objfiles()
				out := make([]goja.Value, 0, len(ofs))
				for _, of := range ofs {
					out = append(out, b.orThrow(b.ObjfileValue(of)))
				}
				return b.rt.ToValue(out)
			},
		},
		{
			Name: "isObjfile",
			Doc:  "Return true if the value is an object-file smob.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return b.rt.ToValue(b.rt.IsKind(call.Argument(0), b.objfileTag))
			},
		},
		{
			Name: "objfileValid",
			Doc:  "Return true if the object file is still loaded.",
			Fn: func(call goja.FunctionCall) goja.Value {
				o := b.objfileSmobArg(call.Argument(0), 1, "objfileValid")
				return b.rt.ToValue(o.Valid())
			},
		},
		{
			Name: "objfileName",
			Doc:  "Return the object file's name.",
			Fn: func(call goja.FunctionCall) goja.Value {
				of := b.validObjfileArg(call.Argument(0), 1, "objfileName")
				return b.rt.ToValue(of.Name())
			},
		},
	}
}
