package bindings

import (
	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"

	"github.com/dop251/goja"
)

// frameSmob wraps a stack frame.  Frames aren't container-scoped:
// the wrapper holds the frame's logical id, and validity is "does the
// engine still know this id", checked on every access.  No chain.
type frameSmob struct {
	core.Base

	id engine.FrameID
}

// FrameValue wraps a frame for script code.  The result is the wrapped
// value or an exception carrier.
func (b *Binder) FrameValue(f engine.Frame) goja.Value {
	s := &frameSmob{id: f.ID()}
	b.rt.InitSmob(&s.Base, b.frameTag)
	return b.rt.WrapSmob(b.rt.ToValue(s))
}

func (b *Binder) frameSmobArg(v goja.Value, pos int, fname string) *frameSmob {
	got := b.rt.UnwrapSmobOrThrow(v, b.frameTag, pos, fname)
	return got.Export().(*frameSmob)
}

// validFrameArg resolves the frame id or throws an invalid-object
// exception when the frame is gone (target resumed, stack unwound).
func (b *Binder) validFrameArg(v goja.Value, pos int, fname string) engine.Frame {
	s := b.frameSmobArg(v, pos, fname)
	f, live := b.eng.FrameByID(s.id)
	if !live {
		b.rt.Throw(b.rt.NewInvalidObjectError(fname, pos, v, "Invalid <tether:frame>"))
	}
	return f
}

func (b *Binder) frameFunctions() []core.FunctionSpec {
	return []core.FunctionSpec{
		{
			Name: "newestFrame",
			Doc:  "Return the innermost frame, or null when the target has no stack.",
			Fn: func(call goja.FunctionCall) goja.Value {
				f, have := b.eng.NewestFrame()
				if !have {
					return goja.Null()
				}
				return b.orThrow(b.FrameValue(f))
			},
		},
		{
			Name: "isFrame",
			Doc:  "Return true if the value is a frame smob.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return b.rt.ToValue(b.rt.IsKind(call.Argument(0), b.frameTag))
			},
		},
		{
			Name: "frameValid",
			Doc:  "Return true if the engine still knows this frame.",
			Fn: func(call goja.FunctionCall) goja.Value {
				s := b.frameSmobArg(call.Argument(0), 1, "frameValid")
				return b.rt.ToValue(b.eng.FrameLive(s.id))
			},
		},
		{
			Name: "framePC",
			Doc:  "Return the frame's program counter.",
			Fn: func(call goja.FunctionCall) goja.Value {
				f := b.validFrameArg(call.Argument(0), 1, "framePC")
				return b.rt.ToValue(f.PC())
			},
		},
		{
			Name: "frameFunctionName",
			Doc:  "Return the name of the function executing in the frame.",
			Fn: func(call goja.FunctionCall) goja.Value {
				f := b.validFrameArg(call.Argument(0), 1, "frameFunctionName")
				return b.rt.ToValue(f.FunctionName())
			},
		},
		{
			Name: "frameOlder",
			Doc:  "Return the next-outermost frame, or null at the bottom of the stack.",
			Fn: func(call goja.FunctionCall) goja.Value {
				f := b.validFrameArg(call.Argument(0), 1, "frameOlder")
				older, have := f.Older()
				if !have {
					return goja.Null()
				}
				return b.orThrow(b.FrameValue(older))
			},
		},
		{
			Name: "frames",
			Doc: "Return an iterator over the stack, innermost first.\n\n" +
				"The progress cursor holds the id of the next frame to deliver.  A frame " +
				"going dead mid-iteration raises an invalid-object exception.  The iterator " +
				"ends with the shared end-of-iteration marker and keeps returning it once " +
				"exhausted.",
			Fn: func(call goja.FunctionCall) goja.Value {
				var progress goja.Value = goja.Null()
				if f, have := b.eng.NewestFrame(); have {
					progress = b.rt.ToValue(int64(f.ID()))
				}

				next := b.rt.ToValue(func(c goja.FunctionCall) goja.Value {
					it := b.rt.IteratorArg(c.Argument(0), 1, "frames.next")
					if goja.IsNull(it.Progress) {
						return b.rt.EndOfIteration()
					}
					id := engine.FrameID(it.Progress.ToInteger())
					f, live := b.eng.FrameByID(id)
					if !live {
						b.rt.Throw(b.rt.NewInvalidObjectError(
							"frames.next", 1, it.Progress, "Invalid <tether:frame>"))
					}
					if older, have := f.Older(); have {
						it.Progress = b.rt.ToValue(int64(older.ID()))
					} else {
						it.Progress = goja.Null()
					}
					return b.orThrow(b.FrameValue(f))
				})

				return b.orThrow(b.rt.NewIterator(goja.Null(), progress, next))
			},
		},
	}
}
