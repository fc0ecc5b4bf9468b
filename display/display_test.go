package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Comcast/tether/core"
)

func TestRender(t *testing.T) {
	rt := core.NewRuntime()
	var errOut bytes.Buffer
	d := New(rt, &errOut)

	if got := d.Render(rt.ToValue(42)); got != "42" {
		t.Fatal(got)
	}

	if _, err := rt.VM().RunString(
		`setPrettyPrinter(function (v) { return "<<" + v + ">>"; });`); err != nil {
		t.Fatal(err)
	}
	if got := d.Render(rt.ToValue(42)); got != "<<42>>" {
		t.Fatal(got)
	}

	v, err := rt.VM().RunString(`render("queso")`)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "<<queso>>" {
		t.Fatal(got)
	}

	if _, err := rt.VM().RunString(`setPrettyPrinter(null);`); err != nil {
		t.Fatal(err)
	}
	if got := d.Render(rt.ToValue(42)); got != "42" {
		t.Fatal(got)
	}
}

func TestBrokenPrinter(t *testing.T) {
	rt := core.NewRuntime()
	var errOut bytes.Buffer
	d := New(rt, &errOut)

	if _, err := rt.VM().RunString(
		`setPrettyPrinter(function (v) { throw new Error("printer busted"); });`); err != nil {
		t.Fatal(err)
	}

	// A failing printer is reported and the raw rendering used;
	// rendering itself never fails.
	if got := d.Render(rt.ToValue(42)); got != "42" {
		t.Fatal(got)
	}
	if got := errOut.String(); !strings.Contains(got, "printer busted") {
		t.Fatal(got)
	}
}

func TestSetPrinterRejectsNonFunctions(t *testing.T) {
	rt := core.NewRuntime()
	d := New(rt, nil)

	if err := d.SetPrinter(rt.ToValue(42)); err == nil {
		t.Fatal("should have refused")
	}
}
