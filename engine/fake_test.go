package engine

import (
	"errors"
	"testing"
)

func TestFakeLookups(t *testing.T) {
	e := NewFake()

	of := e.AddObjfile("app")
	st := e.AddSymtab(of, "app.c")
	tInt := e.AddType(of, "int", TypeCodeInt, 4)
	e.AddSymbol(st, "main", tInt)

	sym, found := e.LookupSymbol("main")
	if !found || sym.Name() != "main" {
		t.Fatal(found)
	}
	if sym.Objfile() != Objfile(of) {
		t.Fatal("symbol should belong to its objfile")
	}
	if _, found := e.LookupSymbol("nope"); found {
		t.Fatal("should not resolve")
	}

	tab, found := e.LookupSymtab("app.c")
	if !found || tab.NumSymbols() != 1 {
		t.Fatal(found)
	}

	typ, found := e.LookupType("int")
	if !found || typ.Sizeof() != 4 || typ.Code() != TypeCodeInt {
		t.Fatal(found)
	}
}

func TestFakeFrames(t *testing.T) {
	e := NewFake()

	if _, have := e.NewestFrame(); have {
		t.Fatal("empty stack")
	}

	outer := e.PushFrame("main", 0x10)
	inner := e.PushFrame("compute", 0x20)

	f, have := e.NewestFrame()
	if !have || f.FunctionName() != "compute" {
		t.Fatal(have)
	}
	older, have := f.Older()
	if !have || older.ID() != outer.ID() {
		t.Fatal(have)
	}
	if _, have := older.Older(); have {
		t.Fatal("outermost frame has no older")
	}

	e.PopFrame()

	if e.FrameLive(inner.ID()) {
		t.Fatal("popped frame should be dead")
	}
	if !e.FrameLive(outer.ID()) {
		t.Fatal("outer frame should be live")
	}
	if _, live := e.FrameByID(inner.ID()); live {
		t.Fatal("popped frame should not resolve")
	}
}

func TestFakeMemory(t *testing.T) {
	e := NewFake()
	e.Map(0x1000, []byte("abcd"))

	buf := make([]byte, 4)
	if err := e.ReadMemory(0x1000, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "abcd" {
		t.Fatal(string(buf))
	}

	if err := e.WriteMemory(0x1002, []byte("CD")); err != nil {
		t.Fatal(err)
	}
	if err := e.ReadMemory(0x1000, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "abCD" {
		t.Fatal(string(buf))
	}

	err := e.ReadMemory(0x1003, buf)
	var me *MemoryError
	if !errors.As(err, &me) {
		t.Fatalf("%v", err)
	}
	if me.Addr != 0x1004 {
		t.Fatalf("0x%x", me.Addr)
	}
}

func TestFakeRemoveObjfile(t *testing.T) {
	e := NewFake()

	app := e.AddObjfile("app")
	lib := e.AddObjfile("lib")

	var removed []string
	e.OnObjfileRemoved(func(of Objfile) {
		removed = append(removed, of.Name())
	})

	e.RemoveObjfile(app)
	if len(removed) != 1 || removed[0] != "app" {
		t.Fatalf("%v", removed)
	}

	if len(e.Objfiles()) != 1 || e.Objfiles()[0] != Objfile(lib) {
		t.Fatal("lib should remain")
	}

	// Removing an absent objfile notifies no one.
	e.RemoveObjfile(app)
	if len(removed) != 1 {
		t.Fatalf("%v", removed)
	}
}
