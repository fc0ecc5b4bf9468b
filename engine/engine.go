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

// Package engine declares the surface this module consumes from a
// native debug engine: symbols, symbol tables, types, frames, object
// files, and target memory.  The bindings treat these as opaque
// payloads; a host wires its own engine in by implementing these
// interfaces.
//
// Object files are the containers of the binding's lifecycle story:
// when the engine drops one, every wrapper pointing into it must go
// inert.  Engines report that via OnObjfileRemoved.
//
// A small in-memory Fake engine lives in this package too, for tests
// and the demo shell.
package engine

import (
	"fmt"
)

// Objfile identifies a loaded unit of the target program.  Objfile
// values are used as container identities, so implementations must be
// comparable (pointer implementations are).
type Objfile interface {
	Name() string
}

// Symbol is a debug symbol.
type Symbol interface {
	// Name is the linkage name.
	Name() string

	// PrintName is what to show a user.
	PrintName() string

	// Symtab is the symbol table the symbol came from, or nil.
	Symtab() Symtab

	// Objfile is the owning object file, or nil for symbols not
	// tied to any unloadable unit.
	Objfile() Objfile

	// Type is the symbol's type, or nil when unknown.
	Type() Type
}

// Symtab is a symbol table for one source file.
type Symtab interface {
	Filename() string
	Objfile() Objfile

	// NumSymbols and SymbolAt exist instead of a materialized
	// slice so enumeration can stay lazy.
	NumSymbols() int
	SymbolAt(i int) Symbol
}

// TypeCode classifies a type.
type TypeCode int

const (
	TypeCodeInt TypeCode = iota
	TypeCodeFloat
	TypeCodeBool
	TypeCodePointer
	TypeCodeArray
	TypeCodeStruct
	TypeCodeFunc
	TypeCodeOther
)

func (c TypeCode) String() string {
	switch c {
	case TypeCodeInt:
		return "int"
	case TypeCodeFloat:
		return "float"
	case TypeCodeBool:
		return "bool"
	case TypeCodePointer:
		return "pointer"
	case TypeCodeArray:
		return "array"
	case TypeCodeStruct:
		return "struct"
	case TypeCodeFunc:
		return "func"
	default:
		return "other"
	}
}

// Field is one member of a composite type.
type Field struct {
	Name   string
	Type   Type
	BitPos int
}

// Type is a target type.
type Type interface {
	Name() string
	Code() TypeCode
	Sizeof() int

	// Objfile is the owning object file, or nil for types not
	// tied to any unloadable unit (builtins).
	Objfile() Objfile

	NumFields() int
	Field(i int) Field
}

// FrameID is the logical identity of a stack frame.  Frames are not
// container-scoped: a frame wrapper stays usable for as long as the
// engine still knows the id, so validity is an existence lookup, not
// a payload-nulling chain.
type FrameID int64

// Frame is one frame of the target's call stack.
type Frame interface {
	ID() FrameID
	PC() uint64
	FunctionName() string

	// Older returns the next-outermost frame, or false at the end
	// of the stack.
	Older() (Frame, bool)
}

// Memory is byte-addressable access to the target.
type Memory interface {
	ReadMemory(addr uint64, p []byte) error
	WriteMemory(addr uint64, p []byte) error
}

// MemoryError is the fault for unreadable or unwritable target
// addresses.
type MemoryError struct {
	Addr uint64
	Op   string
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("cannot %s target memory at 0x%x", e.Op, e.Addr)
}

// MemoryFault marks this error as a memory fault for callers that
// discriminate without knowing this concrete type.
func (e *MemoryError) MemoryFault() {}

// Engine aggregates the lookup operations the bindings consume.
type Engine interface {
	Memory

	Objfiles() []Objfile
	LookupSymbol(name string) (Symbol, bool)
	LookupSymtab(filename string) (Symtab, bool)
	LookupType(name string) (Type, bool)

	// NewestFrame returns the innermost frame, or false when the
	// target has no stack (not running).
	NewestFrame() (Frame, bool)
	FrameByID(id FrameID) (Frame, bool)
	FrameLive(id FrameID) bool

	// OnObjfileRemoved registers a callback to run, synchronously,
	// when an object file is about to be dropped.
	OnObjfileRemoved(fn func(Objfile))
}
