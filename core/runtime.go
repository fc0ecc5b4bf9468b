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
	"log"

	"github.com/dop251/goja"
)

// PrintMode says how much of an uncaught exception to render at the
// top level.
type PrintMode int

const (
	// PrintNone suppresses uncaught-exception output entirely.
	PrintNone PrintMode = iota

	// PrintMessage renders the message only.
	PrintMessage

	// PrintFull renders the backtrace (when the exception carries
	// one) followed by the message.
	PrintFull
)

// Runtime owns one embedded Goja runtime plus the registries that make
// the binding work: the smob tag registry, the container chain
// registry, and the two conversion hook slots.
//
// One Runtime per engine instance.  Not safe for concurrent use; see
// the package documentation.
type Runtime struct {
	vm *goja.Runtime

	// tagNames is the tag registry.  A tag, once minted, stays
	// registered for the life of the Runtime.
	tagNames map[Tag]string
	nextTag  Tag

	// chains maps container identity to the head of that
	// container's wrapper chain.
	chains map[interface{}]*Chained

	// The conversion hooks.  nil means absent (identity).
	nativeToScript goja.Callable
	scriptToNative goja.Callable

	// funcs records everything installed via Define, mostly so
	// docs can be generated from the same tables that installed
	// the functions.
	funcs []FunctionSpec

	// end is the shared end-of-iteration marker.  Producers are
	// not required to use it.
	end goja.Value

	exceptionTag Tag
	iteratorTag  Tag
	endTag       Tag

	exceptionCount uint64

	// PrintMode gates uncaught-exception presentation.
	PrintMode PrintMode

	// Debug turns on chatty logging.
	Debug bool
}

// NewRuntime makes a Runtime with a fresh Goja runtime, mints the
// built-in smob kinds, and installs the base script-visible functions.
func NewRuntime() *Runtime {
	r := &Runtime{
		vm:        goja.New(),
		tagNames:  make(map[Tag]string),
		nextTag:   1,
		chains:    make(map[interface{}]*Chained),
		PrintMode: PrintMessage,
	}

	r.exceptionTag = r.NewTag("tether:exception")
	r.iteratorTag = r.NewTag("tether:iterator")
	r.endTag = r.NewTag("tether:end-of-iteration")

	e := &endMarker{}
	r.InitSmob(&e.Base, r.endTag)
	r.end = r.vm.ToValue(e)

	r.Define(r.smobFunctions())
	r.Define(r.hookFunctions())
	r.Define(r.exceptionFunctions())
	r.Define(r.iteratorFunctions())

	return r
}

// VM exposes the underlying Goja runtime.  Callers that invoke script
// code directly instead of through SafeCall are on their own with
// respect to unwinds.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// ToValue is shorthand for r.VM().ToValue.
func (r *Runtime) ToValue(x interface{}) goja.Value {
	return r.vm.ToValue(x)
}

func (r *Runtime) logf(format string, args ...interface{}) {
	if r.Debug {
		log.Printf("core.Runtime "+format, args...)
	}
}
