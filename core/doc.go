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

// Package core is the gear for exposing a long-lived native engine's
// objects to an embedded ECMAScript runtime (Goja) without either side
// corrupting the other.
//
// The engine's objects (symbols, types, frames, ...) have their own
// lifetimes.  A whole batch of them can vanish when, say, an object
// file is unloaded, and that happens on the engine's schedule, not the
// script runtime's.  So a wrapper handed to script code must go inert
// rather than dangle.  See Chained and the chain registry on Runtime.
//
// The two sides also have incompatible failure models.  The engine
// reports faults as Go errors (and the occasional panic); script code
// throws.  Neither unwind may cross into the other's frames, so every
// crossing materializes the failure as data first: an Exception value
// carrying a (key, args) payload.  SafeCall is the boundary that
// guarantees this.  One load-bearing rule follows from that design: an
// Exception is never a valid result of anything else, so any function
// documented as returning "a value or an exception" must have its
// result checked with AsException (or IsException) before the result
// is otherwise interpreted.
//
// Wrappers are "smobs", for "small objects": Go structs embedding
// Base, exposed to script code as ordinary Goja values.  Each smob kind gets a Tag from the runtime's tag registry,
// which is what lets arbitrary script values be tested for "is this
// one of ours" in O(1).  Applications can interpose their own surface
// representation around smobs via the two replaceable hook slots; see
// SetNativeToScript and SetScriptToNative.
//
// A Runtime and everything reachable from it must be used from a
// single goroutine at a time.  Script code runs only when native code
// invokes it, and native accessors run only when script code calls
// them, so there is one logical thread of control.  A multi-goroutine
// host has to serialize access itself.
package core
