package core

import (
	"testing"

	"github.com/dop251/goja"
)

type thing struct {
	Base
	n int
}

func TestTags(t *testing.T) {
	r := NewRuntime()

	widget := r.NewTag("widget")
	gadget := r.NewTag("gadget")

	if widget == gadget {
		t.Fatal("tags should be distinct")
	}

	t.Run("names", func(t *testing.T) {
		if name := r.TagName(widget); name != "widget" {
			t.Fatal(name)
		}
		if name := r.TagName(Tag(4242)); name != "" {
			t.Fatal(name)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("should have panicked")
			}
		}()
		r.NewTag("widget")
	})

	t.Run("kinds", func(t *testing.T) {
		w := &thing{n: 1}
		r.InitSmob(&w.Base, widget)
		v := r.ToValue(w)

		if !r.IsSmob(v) {
			t.Fatal("should be a smob")
		}
		if !r.IsKind(v, widget) {
			t.Fatal("should be a widget")
		}
		if r.IsKind(v, gadget) {
			t.Fatal("should not be a gadget")
		}
		if !r.IsKind(v, AnyTag) {
			t.Fatal("AnyTag should match")
		}
	})

	t.Run("nonsmobs", func(t *testing.T) {
		for _, v := range []goja.Value{
			r.ToValue("queso"),
			r.ToValue(42),
			goja.Null(),
			goja.Undefined(),
			nil,
		} {
			if r.IsSmob(v) {
				t.Fatalf("%v should not be a smob", v)
			}
		}
	})
}

func TestSmobAux(t *testing.T) {
	r := NewRuntime()
	tag := r.NewTag("widget")

	w := &thing{}
	r.InitSmob(&w.Base, tag)

	if !goja.IsUndefined(w.Aux()) {
		t.Fatal("aux should start undefined")
	}

	w.SetAux(r.ToValue("tacos"))
	if got := w.Aux().String(); got != "tacos" {
		t.Fatal(got)
	}
}

func TestSmobScriptSurface(t *testing.T) {
	r := NewRuntime()
	tag := r.NewTag("widget")

	w := &thing{}
	r.InitSmob(&w.Base, tag)
	if err := r.VM().Set("w", r.ToValue(w)); err != nil {
		t.Fatal(err)
	}

	check := func(src string, want interface{}) {
		v, err := r.VM().RunString(src)
		if err != nil {
			t.Fatalf("%s: %s", src, err)
		}
		if got := v.Export(); got != want {
			t.Fatalf("%s: got %v, wanted %v", src, got, want)
		}
	}

	check("isSmob(w)", true)
	check("isSmob(42)", false)
	check(`smobKind(w)`, "<widget>")
	check(`setSmobAux(w, "queso"); smobAux(w)`, "queso")

	check(`
var key = null;
try {
  smobKind(42);
} catch (e) {
  key = exceptionKey(e);
}
key`, WrongTypeArgKey)
}
