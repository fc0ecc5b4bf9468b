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
	"fmt"

	"github.com/dop251/goja"
)

// The safe-call boundary.
//
// SafeCall and SafeRunString are the only sanctioned entry points into
// script code from native contexts that must remain exception-safe:
// print callbacks, conversion hooks, pretty-printers, iterator advance
// procedures.  Whatever goes wrong on either side, the caller observes
// a normal return whose value is either the callee's result or an
// Exception carrier.  Check with AsException before interpreting the
// result.

// SafeCall invokes a script procedure and never lets an unwind
// propagate into the caller.  On success it returns exactly the
// callee's result.  On failure it returns an Exception carrier value:
//   - a thrown carrier comes back as that carrier;
//   - any other script throw comes back as a generic-key carrier
//     wrapped with the backtrace snapshot Goja captured;
//   - an interrupt comes back as a signal carrier;
//   - a stray native panic comes back as a generic-key carrier.
func (r *Runtime) SafeCall(fn goja.Callable, this goja.Value, args ...goja.Value) (result goja.Value) {
	defer func() {
		if p := recover(); p != nil {
			result = r.vm.ToValue(r.exceptionFromPanic(p))
		}
	}()

	v, err := fn(this, args...)
	if err != nil {
		return r.vm.ToValue(r.exceptionFromCallError(err))
	}
	return v
}

// SafeRunString evaluates source text under the same no-unwind
// guarantee as SafeCall.  Cancelling the context interrupts the
// evaluation, which surfaces as a signal carrier.
func (r *Runtime) SafeRunString(ctx context.Context, src string) (result goja.Value) {
	defer func() {
		if p := recover(); p != nil {
			result = r.vm.ToValue(r.exceptionFromPanic(p))
		}
	}()

	// Interrupt the runtime as soon as the context is done.  If we
	// finish first, cancel() below makes the goroutine exit without
	// interrupting anything that runs later; ClearInterrupt covers
	// the race where the interrupt lands after RunString returns.
	ictx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ictx.Done()
		if ctx.Err() != nil {
			r.vm.Interrupt("User interrupt")
		}
	}()

	v, err := r.vm.RunString(src)
	cancel()
	<-done
	r.vm.ClearInterrupt()

	if err != nil {
		return r.vm.ToValue(r.exceptionFromCallError(err))
	}
	return v
}

// exceptionFromCallError converts the error from a Goja invocation
// into a carrier.
func (r *Runtime) exceptionFromCallError(err error) *Exception {
	switch ex := err.(type) {
	case *goja.Exception:
		if thrown := ex.Value(); thrown != nil {
			if e, is := AsException(thrown); is {
				return e
			}
		}
		// ex.String() renders the thrown value followed by the
		// script stack; keep it as the backtrace snapshot.
		return r.WithStack(r.NewError("%s", ex.Error()), ex.String())
	case *goja.InterruptedError:
		return r.NewSignalError()
	default:
		return r.NewError("%s", err.Error())
	}
}

// exceptionFromPanic converts a recovered panic into a carrier.  A
// panic carrying a thrown carrier value (see Throw) is unwrapped; a
// Go error keeps its engine-fault discrimination; anything else is
// rendered.
func (r *Runtime) exceptionFromPanic(p interface{}) *Exception {
	switch v := p.(type) {
	case goja.Value:
		if e, is := AsException(v); is {
			return e
		}
		return r.NewError("%s", v.String())
	case *Exception:
		return v
	case error:
		return r.ExceptionFromError(v)
	default:
		return r.NewError("%v", fmt.Sprint(p))
	}
}
