/* Copyright 2021 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dop251/goja"
)

// Exception keys.  Script code catches on these, so they are part of
// the surface, not an implementation detail.
const (
	// ErrorKey is the generic "an engine operation failed" key.
	ErrorKey = "tether:error"

	// MemoryErrorKey marks faults from reading or writing target
	// memory, so callers can discriminate without string-matching.
	MemoryErrorKey = "tether:memory-error"

	// InvalidObjectKey marks use of a wrapper whose payload has
	// been invalidated.
	InvalidObjectKey = "tether:invalid-object-error"

	// WrongTypeArgKey and OutOfRangeKey use the embedded runtime's
	// conventional spellings for argument errors.
	WrongTypeArgKey = "wrong-type-arg"
	OutOfRangeKey   = "out-of-range"

	// SignalKey marks an interactive interrupt.  The text and the
	// signal-number argument match what an interactive top level
	// reports for the same condition.
	SignalKey = "signal"

	// WithStackKey wraps another exception together with a
	// backtrace snapshot.  Args are (realKey, stack, realArgs...).
	WithStackKey = "tether:with-stack"
)

// sigINT is the signal number reported with SignalKey.
const sigINT = 2

// Exception is the uniform carrier for a failure from either side of
// the boundary: a (key, args) payload, itself a smob.
//
// An Exception is never a valid result of any other operation.  Any
// function whose result may be an Exception must be checked with
// AsException before the result is otherwise interpreted.
type Exception struct {
	Base

	Key  string
	Args []goja.Value
}

// memoryFault is what engine memory errors look like from here.  The
// engine package's MemoryError implements it; core stays ignorant of
// the engine's concrete types.
type memoryFault interface {
	error
	MemoryFault()
}

// NewException makes an exception carrier from raw key and args.
func (r *Runtime) NewException(key string, args ...goja.Value) *Exception {
	e := &Exception{Key: key, Args: args}
	r.InitSmob(&e.Base, r.exceptionTag)
	r.exceptionCount++
	return e
}

// NewError makes a generic-key exception whose single argument is the
// rendered message.
func (r *Runtime) NewError(format string, args ...interface{}) *Exception {
	return r.NewException(ErrorKey, r.vm.ToValue(fmt.Sprintf(format, args...)))
}

// newArgError renders "<error phrase> in position <n>: <value>" the
// way argument errors read at an interactive top level.
func (r *Runtime) newArgError(key, fname string, pos int, bad goja.Value, phrase string) *Exception {
	var msg string
	if pos > 0 {
		msg = fmt.Sprintf("%s in position %d: %s", phrase, pos, bad)
	} else {
		msg = fmt.Sprintf("%s: %s", phrase, bad)
	}
	if fname != "" {
		msg = fname + ": " + msg
	}
	return r.NewException(key, r.vm.ToValue(msg), bad)
}

// NewTypeError makes a wrong-type-arg exception.
func (r *Runtime) NewTypeError(fname string, pos int, bad goja.Value, expected string) *Exception {
	phrase := "Wrong type argument"
	if expected != "" {
		phrase = fmt.Sprintf("Wrong type argument (expecting %s)", expected)
	}
	return r.newArgError(WrongTypeArgKey, fname, pos, bad, phrase)
}

// NewOutOfRangeError makes an out-of-range exception.  The phrase
// should be short, like "Invalid seek offset".
func (r *Runtime) NewOutOfRangeError(fname string, pos int, bad goja.Value, phrase string) *Exception {
	return r.newArgError(OutOfRangeKey, fname, pos, bad, phrase)
}

// NewInvalidObjectError makes an invalid-object exception, for
// wrappers whose payload has been invalidated.  The phrase should be
// short, like "Invalid <symbol>".
func (r *Runtime) NewInvalidObjectError(fname string, pos int, bad goja.Value, phrase string) *Exception {
	return r.newArgError(InvalidObjectKey, fname, pos, bad, phrase)
}

// NewMemoryError makes a memory-error exception.
func (r *Runtime) NewMemoryError(format string, args ...interface{}) *Exception {
	return r.NewException(MemoryErrorKey, r.vm.ToValue(fmt.Sprintf(format, args...)))
}

// NewSignalError makes the interactive-interrupt exception.
func (r *Runtime) NewSignalError() *Exception {
	return r.NewException(SignalKey,
		r.vm.ToValue("User interrupt"), r.vm.ToValue(sigINT))
}

// WithStack wraps an exception together with a backtrace snapshot.
// Unwrapped and Stack undo the wrapping; consumers that don't care
// about the stack see the underlying key and args through those same
// accessors.
func (r *Runtime) WithStack(e *Exception, stack string) *Exception {
	args := make([]goja.Value, 0, len(e.Args)+2)
	args = append(args, r.vm.ToValue(e.Key), r.vm.ToValue(stack))
	args = append(args, e.Args...)
	return r.NewException(WithStackKey, args...)
}

// ExceptionFromError converts an engine-side Go error into a carrier:
// memory faults and interrupts get their dedicated keys, everything
// else the generic key with the rendered message.
func (r *Runtime) ExceptionFromError(err error) *Exception {
	var mf memoryFault
	switch {
	case errors.As(err, &mf):
		return r.NewMemoryError("%s", mf.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return r.NewSignalError()
	default:
		return r.NewError("%s", err.Error())
	}
}

// AsException extracts the carrier from a script value, if the value
// is one.
func AsException(v goja.Value) (*Exception, bool) {
	if v == nil {
		return nil, false
	}
	e, is := v.Export().(*Exception)
	return e, is
}

// IsException reports whether the value is an exception carrier.
func IsException(v goja.Value) bool {
	_, is := AsException(v)
	return is
}

// Unwrapped returns the exception's key and args with any with-stack
// wrapping stripped.
func (e *Exception) Unwrapped() (string, []goja.Value) {
	if e.Key == WithStackKey && len(e.Args) >= 2 {
		return e.Args[0].String(), e.Args[2:]
	}
	return e.Key, e.Args
}

// Stack returns the attached backtrace snapshot, if there is one.
func (e *Exception) Stack() (string, bool) {
	if e.Key == WithStackKey && len(e.Args) >= 2 {
		return e.Args[1].String(), true
	}
	return "", false
}

// Message renders the human-readable part of the exception.
func (e *Exception) Message() string {
	key, args := e.Unwrapped()
	if len(args) == 0 {
		return key
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, a.String())
	}
	// Signal exceptions carry (message, signo); only the message
	// reads well.
	if key == SignalKey {
		return parts[0]
	}
	return strings.Join(parts, " ")
}

// Error makes *Exception usable as a Go error for native callers that
// want to propagate it that way.
func (e *Exception) Error() string {
	key, _ := e.Unwrapped()
	return key + ": " + e.Message()
}

// Throw converts the carrier into an actual script-runtime unwind.
//
// Caller obligation: only call this where a script call stack is live
// and ready to catch, i.e. from inside a function invoked by script
// code.  In particular never call it from a native fault handler that
// still owns native resources needing unwind-driven cleanup.  The
// framework cannot check this.
func (r *Runtime) Throw(e *Exception) {
	panic(r.vm.ToValue(e))
}

// PrintException writes the exception to w according to the runtime's
// PrintMode: nothing, the message, or backtrace plus message.
func (r *Runtime) PrintException(w io.Writer, e *Exception) {
	if r.PrintMode == PrintNone {
		return
	}
	if r.PrintMode == PrintFull {
		if stack, have := e.Stack(); have {
			fmt.Fprintf(w, "Backtrace:\n%s\n", stack)
		}
	}
	fmt.Fprintf(w, "ERROR: %s\n", e.Message())
}

// ExceptionCount returns how many carriers this runtime has created.
// For performance monitoring.
func (r *Runtime) ExceptionCount() uint64 {
	return r.exceptionCount
}

// Script surface.  Exceptions are deliberately not routed through the
// conversion hooks: if the hooks themselves fail, converting the
// resulting exception would recurse.

func (r *Runtime) exceptionArg(v goja.Value, pos int, fname string) *Exception {
	e, is := AsException(v)
	if !is {
		r.Throw(r.NewTypeError(fname, pos, v, "tether:exception"))
	}
	return e
}

func (r *Runtime) exceptionFunctions() []FunctionSpec {
	return []FunctionSpec{
		{
			Name: "makeException",
			Doc:  "Create an exception carrier.\n\nArguments: key, args...\nThese are the standard key and args of a throw.",
			Fn: func(call goja.FunctionCall) goja.Value {
				key := r.StringArg(call, 0, "makeException")
				args := make([]goja.Value, 0, len(call.Arguments)-1)
				if len(call.Arguments) > 1 {
					args = append(args, call.Arguments[1:]...)
				}
				return r.vm.ToValue(r.NewException(key, args...))
			},
		},
		{
			Name: "isException",
			Doc:  "Return true if the value is an exception carrier.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return r.vm.ToValue(IsException(call.Argument(0)))
			},
		},
		{
			Name: "exceptionKey",
			Doc:  "Return the exception's key.",
			Fn: func(call goja.FunctionCall) goja.Value {
				e := r.exceptionArg(call.Argument(0), 1, "exceptionKey")
				return r.vm.ToValue(e.Key)
			},
		},
		{
			Name: "exceptionArgs",
			Doc:  "Return the exception's argument list.",
			Fn: func(call goja.FunctionCall) goja.Value {
				e := r.exceptionArg(call.Argument(0), 1, "exceptionArgs")
				return r.vm.ToValue(e.Args)
			},
		},
		{
			Name: "throwException",
			Doc:  "Throw the exception carrier as a real script exception.",
			Fn: func(call goja.FunctionCall) goja.Value {
				e := r.exceptionArg(call.Argument(0), 1, "throwException")
				r.Throw(e)
				return goja.Undefined() // not reached
			},
		},
		{
			Name: "exceptionCount",
			Doc:  "Return a count of the exception carriers created so far.  For debugging.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return r.vm.ToValue(r.exceptionCount)
			},
		},
	}
}
