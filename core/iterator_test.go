package core

import (
	"testing"

	"github.com/dop251/goja"
)

func TestIterator(t *testing.T) {
	r := NewRuntime()

	// A three-element iteration with an integer cursor, all in
	// script.
	v, err := r.VM().RunString(`
var subject = ["a", "b", "c"];
var it = makeIterator(subject, 0, function (iter) {
  var i = iteratorProgress(iter);
  if (i >= iteratorObject(iter).length) {
    return endOfIteration();
  }
  setIteratorProgress(iter, i + 1);
  return iteratorObject(iter)[i];
});
it
`)
	if err != nil {
		t.Fatal(err)
	}

	if !r.IsKind(v, r.iteratorTag) {
		t.Fatal("should be an iterator")
	}

	var got []string
	for i := 0; i < 10; i++ {
		next := r.Advance(v)
		if e, is := AsException(next); is {
			t.Fatal(e)
		}
		if r.IsEndOfIteration(next) {
			break
		}
		got = append(got, next.String())
	}

	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("%v", got)
	}

	// Exhausted iterators keep saying so.
	for i := 0; i < 3; i++ {
		if !r.IsEndOfIteration(r.Advance(v)) {
			t.Fatal("should stay exhausted")
		}
	}
}

func TestIteratorScriptSurface(t *testing.T) {
	r := NewRuntime()

	v, err := r.VM().RunString(`
var it = makeIterator("subject", null, function (iter) { return endOfIteration(); });
[isIterator(it), isIterator(42), iteratorObject(it),
 isEndOfIteration(iteratorNext(it)), isEndOfIteration("nope")]
`)
	if err != nil {
		t.Fatal(err)
	}
	got := v.Export().([]interface{})
	if got[0] != true || got[1] != false || got[2] != "subject" ||
		got[3] != true || got[4] != false {
		t.Fatalf("%#v", got)
	}
}

func TestIteratorErrors(t *testing.T) {
	r := NewRuntime()

	t.Run("next not callable", func(t *testing.T) {
		res := r.NewIterator(r.ToValue("x"), goja.Null(), r.ToValue(42))
		e, is := AsException(res)
		if !is {
			t.Fatal("should have failed")
		}
		if e.Key != WrongTypeArgKey {
			t.Fatal(e.Key)
		}
	})

	t.Run("faulty advance", func(t *testing.T) {
		v, err := r.VM().RunString(
			`makeIterator("x", null, function (iter) { throw new Error("advance busted"); })`)
		if err != nil {
			t.Fatal(err)
		}
		res := r.Advance(v)
		if !IsException(res) {
			t.Fatal("advance failure should surface as a carrier")
		}
		// And the iterator is still usable as a value.
		if !r.IsKind(v, r.iteratorTag) {
			t.Fatal("iterator should survive")
		}
	})

	t.Run("advance of non-iterator", func(t *testing.T) {
		res := r.Advance(r.ToValue("nope"))
		e, is := AsException(res)
		if !is {
			t.Fatal("should have failed")
		}
		if e.Key != WrongTypeArgKey {
			t.Fatal(e.Key)
		}
	})
}
