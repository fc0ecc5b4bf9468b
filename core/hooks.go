package core

import (
	"github.com/dop251/goja"
)

// The extensibility hooks.
//
// Applications may interpose their own surface representation around
// smobs: everything going out to script code is passed through the
// native-to-script hook, and everything coming back is passed through
// the script-to-native hook.  The first can return any object that
// contains the original, provided the second can get it back.  Both
// default to absent, which means identity.
//
// Exception carriers are the one kind that is never passed through the
// hooks; converting a failing hook's own failure would recurse.

// SetNativeToScript installs (or, with null/undefined/nil, clears) the
// outbound conversion hook.
func (r *Runtime) SetNativeToScript(v goja.Value) error {
	fn, err := hookProc(r, v, "setNativeToScriptHook")
	if err != nil {
		return err
	}
	r.nativeToScript = fn
	return nil
}

// SetScriptToNative installs (or clears) the inbound conversion hook.
func (r *Runtime) SetScriptToNative(v goja.Value) error {
	fn, err := hookProc(r, v, "setScriptToNativeHook")
	if err != nil {
		return err
	}
	r.scriptToNative = fn
	return nil
}

func hookProc(r *Runtime, v goja.Value, fname string) (goja.Callable, error) {
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		return nil, nil
	}
	fn, is := goja.AssertFunction(v)
	if !is {
		return nil, r.NewTypeError(fname, 1, v, "function or null")
	}
	return fn, nil
}

// WrapSmob passes an outgoing wrapper value through the
// native-to-script hook.  With the hook absent the value is returned
// unchanged.  The hook runs behind the safe-call boundary, so the
// result may be an Exception carrier.
func (r *Runtime) WrapSmob(v goja.Value) goja.Value {
	if r.nativeToScript == nil {
		return v
	}
	return r.SafeCall(r.nativeToScript, goja.Undefined(), v)
}

// WrapSmobOrThrow is WrapSmob for contexts with a live script stack:
// a carrier result is thrown instead of returned.
func (r *Runtime) WrapSmobOrThrow(v goja.Value) goja.Value {
	out := r.WrapSmob(v)
	if e, is := AsException(out); is {
		r.Throw(e)
	}
	return out
}

// UnwrapSmob recovers the wrapper from an incoming script value.
//
// If the value already satisfies the tag test (AnyTag matches any
// registered kind) it is returned directly, without hook processing.
// Otherwise the script-to-native hook runs behind the safe-call
// boundary; its result must satisfy the tag test again, or be
// null/undefined for "no match".  Anything else is a contract
// violation by the application and comes back as an out-of-range
// carrier.  With the hook absent and no tag match, the result is null.
//
// So the result is one of: a matching wrapper, null, or an Exception
// carrier.  Check in that order.
func (r *Runtime) UnwrapSmob(v goja.Value, tag Tag) goja.Value {
	if r.IsKind(v, tag) {
		return v
	}
	if r.scriptToNative == nil {
		return goja.Null()
	}
	res := r.SafeCall(r.scriptToNative, goja.Undefined(), v)
	if res == nil || goja.IsNull(res) || goja.IsUndefined(res) {
		return goja.Null()
	}
	if IsException(res) {
		return res
	}
	if r.IsKind(res, tag) {
		return res
	}
	return r.vm.ToValue(r.NewOutOfRangeError("", 0, res,
		"Result of the script-to-native hook must be the requested smob kind or null"))
}

// UnwrapSmobOrThrow is UnwrapSmob for contexts with a live script
// stack: a carrier is thrown, and "no match" becomes a wrong-type-arg
// throw naming the expected kind.
func (r *Runtime) UnwrapSmobOrThrow(v goja.Value, tag Tag, pos int, fname string) goja.Value {
	res := r.UnwrapSmob(v, tag)
	if e, is := AsException(res); is {
		r.Throw(e)
	}
	if goja.IsNull(res) {
		expected := "any smob"
		if tag != AnyTag {
			expected = r.TagName(tag)
		}
		r.Throw(r.NewTypeError(fname, pos, v, expected))
	}
	return res
}

// Script surface for inspecting and replacing the hooks.

func (r *Runtime) hookFunctions() []FunctionSpec {
	return []FunctionSpec{
		{
			Name: "setNativeToScriptHook",
			Doc: "Install the procedure every outgoing smob is passed through, or null to clear.\n\n" +
				"The procedure takes the smob and typically returns a modified representation of it.",
			Fn: func(call goja.FunctionCall) goja.Value {
				if err := r.SetNativeToScript(call.Argument(0)); err != nil {
					r.Throw(err.(*Exception))
				}
				return goja.Undefined()
			},
		},
		{
			Name: "setScriptToNativeHook",
			Doc: "Install the procedure that recovers a smob from an application value, or null to clear.\n\n" +
				"The procedure is intended to undo the transformation the native-to-script hook does: " +
				"it must return the original smob, or null if the value was not recognized.",
			Fn: func(call goja.FunctionCall) goja.Value {
				if err := r.SetScriptToNative(call.Argument(0)); err != nil {
					r.Throw(err.(*Exception))
				}
				return goja.Undefined()
			},
		},
	}
}
