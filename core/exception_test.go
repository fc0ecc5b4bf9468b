package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestExceptionKeys(t *testing.T) {
	r := NewRuntime()

	e := r.NewError("no such %s", "symbol")
	if e.Key != ErrorKey {
		t.Fatal(e.Key)
	}
	if got := e.Message(); got != "no such symbol" {
		t.Fatal(got)
	}

	e = r.NewTypeError("frob", 2, r.ToValue(42), "string")
	if e.Key != WrongTypeArgKey {
		t.Fatal(e.Key)
	}
	if got := e.Message(); !strings.Contains(got, "position 2") ||
		!strings.Contains(got, "frob") {
		t.Fatal(got)
	}

	e = r.NewSignalError()
	if e.Key != SignalKey {
		t.Fatal(e.Key)
	}
	if got := e.Message(); got != "User interrupt" {
		t.Fatal(got)
	}
	if len(e.Args) != 2 || e.Args[1].ToInteger() != 2 {
		t.Fatalf("signal args %v", e.Args)
	}
}

func TestExceptionWithStack(t *testing.T) {
	r := NewRuntime()

	inner := r.NewException(OutOfRangeKey, r.ToValue("Bad offset"), r.ToValue(-1))
	wrapped := r.WithStack(inner, "at foo (eval:1:1)")

	if wrapped.Key != WithStackKey {
		t.Fatal(wrapped.Key)
	}

	key, args := wrapped.Unwrapped()
	if key != OutOfRangeKey {
		t.Fatal(key)
	}
	if len(args) != 2 || args[0].String() != "Bad offset" {
		t.Fatalf("args %v", args)
	}

	stack, have := wrapped.Stack()
	if !have || !strings.Contains(stack, "foo") {
		t.Fatal(stack)
	}

	if _, have := inner.Stack(); have {
		t.Fatal("unwrapped exception should have no stack")
	}
}

type fault struct {
	addr uint64
}

func (f *fault) Error() string {
	return fmt.Sprintf("cannot access memory at address 0x%x", f.addr)
}

func (f *fault) MemoryFault() {}

func TestExceptionFromError(t *testing.T) {
	r := NewRuntime()

	e := r.ExceptionFromError(&fault{addr: 0xdead})
	if e.Key != MemoryErrorKey {
		t.Fatal(e.Key)
	}
	if got := e.Message(); !strings.Contains(got, "0xdead") {
		t.Fatal(got)
	}

	// Wrapped faults still discriminate.
	e = r.ExceptionFromError(fmt.Errorf("reading: %w", &fault{addr: 1}))
	if e.Key != MemoryErrorKey {
		t.Fatal(e.Key)
	}

	e = r.ExceptionFromError(context.Canceled)
	if e.Key != SignalKey {
		t.Fatal(e.Key)
	}

	e = r.ExceptionFromError(errors.New("broker unavailable"))
	if e.Key != ErrorKey {
		t.Fatal(e.Key)
	}
}

func TestPrintModes(t *testing.T) {
	r := NewRuntime()

	e := r.WithStack(r.NewError("boom"), "at bar (eval:2:3)")

	var buf bytes.Buffer

	r.PrintMode = PrintNone
	r.PrintException(&buf, e)
	if buf.Len() != 0 {
		t.Fatal(buf.String())
	}

	r.PrintMode = PrintMessage
	r.PrintException(&buf, e)
	if got := buf.String(); !strings.Contains(got, "ERROR: boom") ||
		strings.Contains(got, "Backtrace") {
		t.Fatal(got)
	}

	buf.Reset()
	r.PrintMode = PrintFull
	r.PrintException(&buf, e)
	if got := buf.String(); !strings.Contains(got, "Backtrace:") ||
		!strings.Contains(got, "bar") ||
		!strings.Contains(got, "ERROR: boom") {
		t.Fatal(got)
	}
}

func TestExceptionScriptSurface(t *testing.T) {
	r := NewRuntime()

	before := r.ExceptionCount()

	v, err := r.VM().RunString(`
var e = makeException("app:oops", "something", 42);
[isException(e), exceptionKey(e), exceptionArgs(e).length, isException("nope")]
`)
	if err != nil {
		t.Fatal(err)
	}
	got := v.Export().([]interface{})
	if got[0] != true || got[1] != "app:oops" || got[3] != false {
		t.Fatalf("%#v", got)
	}

	if r.ExceptionCount() == before {
		t.Fatal("count should have moved")
	}

	// A thrown carrier is catchable and comes back as itself.
	v, err = r.VM().RunString(`
var caught = null;
try {
  throwException(makeException("app:oops", "again"));
} catch (x) {
  caught = x;
}
isException(caught) && exceptionKey(caught)
`)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Export(); got != "app:oops" {
		t.Fatalf("%v", got)
	}
}
