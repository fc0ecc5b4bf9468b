// Package display drives application-installed pretty-printers.  The
// printer is arbitrary script code, so it runs behind the safe-call
// boundary, and a failing printer is printed-and-continued: a broken
// pretty-printer must never abort an unrelated inspection.
package display

import (
	"io"

	"github.com/Comcast/tether/core"

	"github.com/dop251/goja"
)

// Displayer renders values for user output.
type Displayer struct {
	rt *core.Runtime

	// ErrOut is where printer failures are reported.  nil
	// suppresses the reports (the fallback rendering still
	// happens).
	ErrOut io.Writer

	printer goja.Callable
}

func New(rt *core.Runtime, errOut io.Writer) *Displayer {
	d := &Displayer{rt: rt, ErrOut: errOut}
	rt.Define(d.functions())
	return d
}

// SetPrinter installs (or, with null/undefined/nil, clears) the
// pretty-printer.  The printer takes the value and returns its
// rendering as a string.
func (d *Displayer) SetPrinter(v goja.Value) error {
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		d.printer = nil
		return nil
	}
	fn, is := goja.AssertFunction(v)
	if !is {
		return d.rt.NewTypeError("setPrettyPrinter", 1, v, "function or null")
	}
	d.printer = fn
	return nil
}

// Render returns the display rendering of a value.  With no printer
// installed, or with a failing one, the value's own string form is
// used.
func (d *Displayer) Render(v goja.Value) string {
	if d.printer == nil {
		return v.String()
	}
	res := d.rt.SafeCall(d.printer, goja.Undefined(), v)
	if e, is := core.AsException(res); is {
		if d.ErrOut != nil {
			d.rt.PrintException(d.ErrOut, e)
		}
		return v.String()
	}
	return res.String()
}

func (d *Displayer) functions() []core.FunctionSpec {
	return []core.FunctionSpec{
		{
			Name: "setPrettyPrinter",
			Doc: "Install the procedure used to render values for display, or null to clear.\n\n" +
				"The procedure takes a value and returns a string.  A failing printer is " +
				"reported and the raw rendering used instead.",
			Fn: func(call goja.FunctionCall) goja.Value {
				if err := d.SetPrinter(call.Argument(0)); err != nil {
					d.rt.Throw(err.(*core.Exception))
				}
				return goja.Undefined()
			},
		},
		{
			Name: "render",
			Doc:  "Return the display rendering of the value, via the pretty-printer when one is installed.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return d.rt.ToValue(d.Render(call.Argument(0)))
			},
		},
	}
}
