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

// Package bindings exposes a native debug engine's objects to script
// code, one smob kind per engine kind.  Each kind gets a predicate, a
// validity predicate, and accessors that refuse to touch an
// invalidated payload.
//
// Symbols, symbol tables, types, and object files are container-scoped
// and get invalidated, via the core chain registry, when their object
// file is unloaded.  Frames are identified by a logical id instead and
// validate by asking the engine whether the id is still live.
package bindings

import (
	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"

	"github.com/dop251/goja"
)

// Binder installs the per-kind bindings into a runtime and holds the
// minted kind tags.
type Binder struct {
	rt  *core.Runtime
	eng engine.Engine

	objfileTag core.Tag
	symbolTag  core.Tag
	symtabTag  core.Tag
	typeTag    core.Tag
	frameTag   core.Tag
}

// New mints the kind tags, installs the script-visible functions, and
// arranges for objfile removal to invalidate the affected wrappers
// before the engine drops the underlying structures.
func New(rt *core.Runtime, eng engine.Engine) *Binder {
	b := &Binder{
		rt:  rt,
		eng: eng,

		objfileTag: rt.NewTag("tether:objfile"),
		symbolTag:  rt.NewTag("tether:symbol"),
		symtabTag:  rt.NewTag("tether:symtab"),
		typeTag:    rt.NewTag("tether:type"),
		frameTag:   rt.NewTag("tether:frame"),
	}

	eng.OnObjfileRemoved(func(of engine.Objfile) {
		rt.InvalidateContainer(of)
	})

	rt.Define(b.objfileFunctions())
	rt.Define(b.symbolFunctions())
	rt.Define(b.symtabFunctions())
	rt.Define(b.typeFunctions())
	rt.Define(b.frameFunctions())

	return b
}

// Runtime returns the runtime this binder installed into.
func (b *Binder) Runtime() *core.Runtime {
	return b.rt
}

// Engine returns the bound engine.
func (b *Binder) Engine() engine.Engine {
	return b.eng
}

// orThrow converts a result-or-carrier into a throw for contexts with
// a live script stack.
func (b *Binder) orThrow(v goja.Value) goja.Value {
	if e, is := core.AsException(v); is {
		b.rt.Throw(e)
	}
	return v
}

// containerOf turns a possibly-nil objfile into a chain container key.
func containerOf(of engine.Objfile) interface{} {
	if of == nil {
		return nil
	}
	return of
}
