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

// When underlying engine data is deleted, every wrapper that
// references it has to be updated.  A wrapper over container-scoped
// data embeds Chained instead of Base, and the Runtime keeps, per
// container, a doubly linked chain of such wrappers.  Destroying the
// container invalidates the whole chain in one walk.
//
// The chain is a membership relation, nothing more.  The container
// doesn't own the wrappers, the wrappers don't own the container, and
// the script runtime's collector remains in charge of wrapper storage.

// Chained is the header for wrappers whose native payload lives inside
// some container (an object file, typically).  A wrapper is a member
// of at most one container's chain at a time.
type Chained struct {
	Base

	prev, next *Chained

	// container is the chain this wrapper is linked into, nil when
	// unlinked or standalone.
	container interface{}

	// payload is the wrapped engine datum.  nil means the wrapper
	// has been invalidated (or never populated).
	payload interface{}
}

// InitChained initializes a chained wrapper header.  The wrapper
// starts unlinked and invalid; see Link and SetPayload.
func (r *Runtime) InitChained(c *Chained, tag Tag) {
	r.InitSmob(&c.Base, tag)
	c.prev = nil
	c.next = nil
	c.container = nil
	c.payload = nil
}

// SetPayload populates the wrapped engine datum.
func (c *Chained) SetPayload(p interface{}) {
	c.payload = p
}

// Payload returns the wrapped engine datum, nil after invalidation.
// Callers that are about to dereference it must go through a
// "valid or fail" accessor instead; see ValidPayload.
func (c *Chained) Payload() interface{} {
	return c.payload
}

// Valid reports whether the wrapper still has a live payload.
func (c *Chained) Valid() bool {
	return c.payload != nil
}

// ValidPayload returns the payload, or false if the wrapper has been
// invalidated.
func (c *Chained) ValidPayload() (interface{}, bool) {
	if c.payload == nil {
		return nil, false
	}
	return c.payload, true
}

// Link pushes the wrapper onto the container's chain.  A nil container
// means the wrapper isn't tied to any unloadable unit: it is simply
// left unlinked and stays valid for as long as it has a payload.
//
// Container identities must be comparable (pointers work fine).
// Insertion order is irrelevant; only membership matters.
func (r *Runtime) Link(container interface{}, c *Chained) {
	c.prev = nil
	if container == nil {
		c.next = nil
		c.container = nil
		return
	}
	head := r.chains[container]
	c.next = head
	if head != nil {
		head.prev = c
	}
	c.container = container
	r.chains[container] = c
}

// Unlink removes the wrapper from its chain.  Calling it on an
// unlinked (or never linked) wrapper is a no-op.
func (r *Runtime) Unlink(c *Chained) {
	if c.prev != nil {
		c.prev.next = c.next
	} else if c.container != nil && r.chains[c.container] == c {
		if c.next != nil {
			r.chains[c.container] = c.next
		} else {
			delete(r.chains, c.container)
		}
	}
	if c.next != nil {
		c.next.prev = c.prev
	}
	c.prev = nil
	c.next = nil
	c.container = nil
}

// InvalidateContainer walks the container's chain once, nulling every
// member's payload and breaking the chain, then discards the chain
// head.  Call it when the container is about to be destroyed; it runs
// to completion before returning, so no wrapper can observe a
// half-invalidated chain.
//
// This is the only place payloads are invalidated en masse.  A second
// invocation for the same container is a no-op because the chain is
// already gone.
func (r *Runtime) InvalidateContainer(container interface{}) {
	c := r.chains[container]
	n := 0
	for c != nil {
		next := c.next
		c.payload = nil
		c.prev = nil
		c.next = nil
		c.container = nil
		c = next
		n++
	}
	delete(r.chains, container)
	r.logf("InvalidateContainer %v (%d wrappers)", container, n)
}
