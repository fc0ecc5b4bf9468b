package core

import (
	"fmt"

	"github.com/dop251/goja"
)

// Tag identifies a smob kind.  Tags are minted by NewTag and are only
// meaningful within the Runtime that minted them.
type Tag uint32

// AnyTag matches any registered smob kind.  It is accepted wherever an
// operation takes an expected tag.
const AnyTag Tag = 0

// NewTag mints a tag for a new smob kind and registers it.  Reusing a
// kind name is a programming error, not a recoverable condition, so it
// panics.
func (r *Runtime) NewTag(name string) Tag {
	for _, n := range r.tagNames {
		if n == name {
			panic(fmt.Sprintf("smob kind %q already registered", name))
		}
	}
	t := r.nextTag
	r.nextTag++
	r.tagNames[t] = name
	return t
}

// TagName returns the kind name for a minted tag, or "" for an
// unregistered one.
func (r *Runtime) TagName(t Tag) string {
	return r.tagNames[t]
}

// smobOf extracts the Smob from a script value, or nil.  No hook
// processing; this is the cheap pre-check.
func smobOf(v goja.Value) Smob {
	if v == nil {
		return nil
	}
	if s, is := v.Export().(Smob); is {
		return s
	}
	return nil
}

// IsSmob reports whether the value is a wrapper of any kind registered
// with this Runtime.  O(1), no allocation, no hook processing.
func (r *Runtime) IsSmob(v goja.Value) bool {
	s := smobOf(v)
	if s == nil {
		return false
	}
	_, registered := r.tagNames[s.SmobBase().tag]
	return registered
}

// IsKind reports whether the value is a wrapper of the given kind.
// With AnyTag it behaves as IsSmob.
func (r *Runtime) IsKind(v goja.Value, tag Tag) bool {
	if tag == AnyTag {
		return r.IsSmob(v)
	}
	s := smobOf(v)
	return s != nil && s.SmobBase().tag == tag
}
