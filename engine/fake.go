package engine

import (
	"fmt"
)

// Fake is a toy in-memory engine for tests and the demo shell.  It is
// not a debugger; it just has enough structure to exercise the
// bindings: objfiles that can be unloaded, symbols and types owned by
// them, a little call stack, and a sparse target memory.
type Fake struct {
	objfiles []*FakeObjfile
	frames   []*FakeFrame

	// mem maps page-aligned-ish regions; reads outside any region
	// fault.
	regions []*FakeRegion

	removed []func(Objfile)
}

func NewFake() *Fake {
	return &Fake{}
}

// FakeObjfile is an unloadable unit.
type FakeObjfile struct {
	name    string
	symtabs []*FakeSymtab
	types   []*FakeType
}

func (o *FakeObjfile) Name() string { return o.name }

// FakeSymtab is a per-source-file symbol table.
type FakeSymtab struct {
	filename string
	objfile  *FakeObjfile
	symbols  []*FakeSymbol
}

func (st *FakeSymtab) Filename() string { return st.filename }
func (st *FakeSymtab) Objfile() Objfile { return st.objfile }
func (st *FakeSymtab) NumSymbols() int  { return len(st.symbols) }
func (st *FakeSymtab) SymbolAt(i int) Symbol {
	return st.symbols[i]
}

// FakeSymbol is a debug symbol.
type FakeSymbol struct {
	name   string
	symtab *FakeSymtab
	typ    *FakeType
}

func (s *FakeSymbol) Name() string      { return s.name }
func (s *FakeSymbol) PrintName() string { return s.name }
func (s *FakeSymbol) Symtab() Symtab    { return s.symtab }
func (s *FakeSymbol) Objfile() Objfile {
	if s.symtab == nil {
		return nil
	}
	return s.symtab.objfile
}
func (s *FakeSymbol) Type() Type {
	if s.typ == nil {
		return nil
	}
	return s.typ
}

// FakeType is a target type.
type FakeType struct {
	name    string
	code    TypeCode
	size    int
	objfile *FakeObjfile
	fields  []Field
}

func (t *FakeType) Name() string   { return t.name }
func (t *FakeType) Code() TypeCode { return t.code }
func (t *FakeType) Sizeof() int    { return t.size }
func (t *FakeType) Objfile() Objfile {
	if t.objfile == nil {
		return nil
	}
	return t.objfile
}
func (t *FakeType) NumFields() int    { return len(t.fields) }
func (t *FakeType) Field(i int) Field { return t.fields[i] }

// FakeFrame is one frame of the toy call stack.
type FakeFrame struct {
	eng  *Fake
	id   FrameID
	pc   uint64
	fn   string
	next int // index of older frame, -1 at the bottom
}

func (f *FakeFrame) ID() FrameID          { return f.id }
func (f *FakeFrame) PC() uint64           { return f.pc }
func (f *FakeFrame) FunctionName() string { return f.fn }
func (f *FakeFrame) Older() (Frame, bool) {
	if f.next < 0 {
		return nil, false
	}
	return f.eng.frames[f.next], true
}

// FakeRegion is a mapped chunk of target memory.
type FakeRegion struct {
	Start uint64
	Data  []byte
}

// Builder methods.

// AddObjfile loads a new object file.
func (e *Fake) AddObjfile(name string) *FakeObjfile {
	o := &FakeObjfile{name: name}
	e.objfiles = append(e.objfiles, o)
	return o
}

// AddSymtab adds a symbol table to an object file.
func (e *Fake) AddSymtab(o *FakeObjfile, filename string) *FakeSymtab {
	st := &FakeSymtab{filename: filename, objfile: o}
	o.symtabs = append(o.symtabs, st)
	return st
}

// AddSymbol adds a symbol to a symbol table.
func (e *Fake) AddSymbol(st *FakeSymtab, name string, typ *FakeType) *FakeSymbol {
	s := &FakeSymbol{name: name, symtab: st, typ: typ}
	st.symbols = append(st.symbols, s)
	return s
}

// AddType adds a type, owned by o (nil for a builtin).
func (e *Fake) AddType(o *FakeObjfile, name string, code TypeCode, size int, fields ...Field) *FakeType {
	t := &FakeType{name: name, code: code, size: size, objfile: o, fields: fields}
	if o != nil {
		o.types = append(o.types, t)
	}
	return t
}

// PushFrame pushes a new innermost frame.
func (e *Fake) PushFrame(fn string, pc uint64) *FakeFrame {
	next := len(e.frames) - 1
	f := &FakeFrame{
		eng:  e,
		id:   FrameID(len(e.frames) + 1),
		pc:   pc,
		fn:   fn,
		next: next,
	}
	e.frames = append(e.frames, f)
	return f
}

// PopFrame drops the innermost frame.  Its id goes dead.
func (e *Fake) PopFrame() {
	if len(e.frames) > 0 {
		e.frames = e.frames[:len(e.frames)-1]
	}
}

// Map maps a region of target memory.
func (e *Fake) Map(start uint64, data []byte) {
	e.regions = append(e.regions, &FakeRegion{Start: start, Data: data})
}

// RemoveObjfile unloads an object file, notifying observers first so
// wrappers are invalidated before the structures go away.
func (e *Fake) RemoveObjfile(o *FakeObjfile) {
	loaded := false
	for _, x := range e.objfiles {
		if x == o {
			loaded = true
			break
		}
	}
	if !loaded {
		return
	}
	for _, fn := range e.removed {
		fn(o)
	}
	for i, x := range e.objfiles {
		if x == o {
			e.objfiles = append(e.objfiles[:i], e.objfiles[i+1:]...)
			break
		}
	}
}

// Engine interface.

func (e *Fake) Objfiles() []Objfile {
	out := make([]Objfile, len(e.objfiles))
	for i, o := range e.objfiles {
		out[i] = o
	}
	return out
}

func (e *Fake) LookupSymbol(name string) (Symbol, bool) {
	for _, o := range e.objfiles {
		for _, st := range o.symtabs {
			for _, s := range st.symbols {
				if s.name == name {
					return s, true
				}
			}
		}
	}
	return nil, false
}

func (e *Fake) LookupSymtab(filename string) (Symtab, bool) {
	for _, o := range e.objfiles {
		for _, st := range o.symtabs {
			if st.filename == filename {
				return st, true
			}
		}
	}
	return nil, false
}

func (e *Fake) LookupType(name string) (Type, bool) {
	for _, o := range e.objfiles {
		for _, t := range o.types {
			if t.name == name {
				return t, true
			}
		}
	}
	return nil, false
}

func (e *Fake) NewestFrame() (Frame, bool) {
	if len(e.frames) == 0 {
		return nil, false
	}
	return e.frames[len(e.frames)-1], true
}

func (e *Fake) FrameByID(id FrameID) (Frame, bool) {
	for _, f := range e.frames {
		if f.id == id {
			return f, true
		}
	}
	return nil, false
}

func (e *Fake) FrameLive(id FrameID) bool {
	_, live := e.FrameByID(id)
	return live
}

func (e *Fake) OnObjfileRemoved(fn func(Objfile)) {
	e.removed = append(e.removed, fn)
}

func (e *Fake) region(addr uint64) *FakeRegion {
	for _, reg := range e.regions {
		if addr >= reg.Start && addr < reg.Start+uint64(len(reg.Data)) {
			return reg
		}
	}
	return nil
}

func (e *Fake) ReadMemory(addr uint64, p []byte) error {
	for i := range p {
		reg := e.region(addr + uint64(i))
		if reg == nil {
			return &MemoryError{Addr: addr + uint64(i), Op: "read"}
		}
		p[i] = reg.Data[addr+uint64(i)-reg.Start]
	}
	return nil
}

func (e *Fake) WriteMemory(addr uint64, p []byte) error {
	for i := range p {
		reg := e.region(addr + uint64(i))
		if reg == nil {
			return &MemoryError{Addr: addr + uint64(i), Op: "write"}
		}
		reg.Data[addr+uint64(i)-reg.Start] = p[i]
	}
	return nil
}

var _ Engine = (*Fake)(nil)

// String helps debugging output.
func (e *Fake) String() string {
	return fmt.Sprintf("engine.Fake{%d objfiles, %d frames}", len(e.objfiles), len(e.frames))
}
