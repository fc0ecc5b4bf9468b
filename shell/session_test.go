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

package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"
)

func demoSession(t *testing.T) (*Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	eng := engine.NewFake()
	of := eng.AddObjfile("app")
	st := eng.AddSymtab(of, "app.c")
	tInt := eng.AddType(of, "int", engine.TypeCodeInt, 4)
	eng.AddSymbol(st, "main", tInt)
	eng.Map(0x1000, []byte("hello"))

	var out, errOut bytes.Buffer
	return NewSession(eng, &out, &errOut), &out, &errOut
}

func TestSessionEval(t *testing.T) {
	s, out, _ := demoSession(t)
	ctx := context.Background()

	// The whole surface is wired: bindings, ports, display, env.
	s.EvalAndPrint(ctx, `symbolName(lookupSymbol("main"))`)
	if got := out.String(); got != "main\n" {
		t.Fatalf("%q", got)
	}

	out.Reset()
	s.EvalAndPrint(ctx, `print("direct")`)
	if got := out.String(); got != "direct\n" {
		t.Fatalf("%q", got)
	}
}

func TestSessionErrorReporting(t *testing.T) {
	s, _, errOut := demoSession(t)
	ctx := context.Background()

	err := s.EvalAndReport(ctx, `symbolName(42)`)
	if err == nil {
		t.Fatal("should have failed")
	}
	e, is := err.(*core.Exception)
	if !is {
		t.Fatalf("%T", err)
	}
	if key, _ := e.Unwrapped(); key != core.WrongTypeArgKey {
		t.Fatal(key)
	}
	if !strings.Contains(errOut.String(), "ERROR:") {
		t.Fatalf("%q", errOut.String())
	}

	// With printing off, the carrier still comes back but nothing
	// is written.
	errOut.Reset()
	s.RT.PrintMode = core.PrintNone
	if err := s.EvalAndReport(ctx, `nonsense(`); err == nil {
		t.Fatal("should have failed")
	}
	if errOut.Len() != 0 {
		t.Fatalf("%q", errOut.String())
	}
}

func TestSessionInterrupt(t *testing.T) {
	s, _, _ := demoSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.EvalAndReport(ctx, "for (;;) {}")
	if err == nil {
		t.Fatal("should have been interrupted")
	}
	e := err.(*core.Exception)
	if e.Key != core.SignalKey {
		t.Fatal(e.Key)
	}

	if err := s.EvalAndReport(context.Background(), "1 + 1"); err != nil {
		t.Fatal(err)
	}
}

func TestREPL(t *testing.T) {
	s, out, _ := demoSession(t)

	in := strings.NewReader("1 + 1\n\nprint(\"hi\")\n")
	if err := s.REPL(context.Background(), in); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	if !strings.Contains(got, "2") || !strings.Contains(got, "hi") {
		t.Fatalf("%q", got)
	}
}

func TestEnvFunctions(t *testing.T) {
	s, out, _ := demoSession(t)
	ctx := context.Background()

	s.EvalAndPrint(ctx, `esc("a b")`)
	if got := out.String(); got != "a+b\n" {
		t.Fatalf("%q", got)
	}

	out.Reset()
	s.EvalAndPrint(ctx, `gensym().length`)
	if got := strings.TrimSpace(out.String()); got != "32" {
		t.Fatalf("%q", got)
	}

	res := s.SafeEvalString(ctx, `cronNext("0 0 * * *")`)
	if core.IsException(res) {
		t.Fatalf("%v", res)
	}
	if got := res.String(); !strings.Contains(got, "T00:00:00") {
		t.Fatal(got)
	}

	res = s.SafeEvalString(ctx, `cronNext("not a cron expression")`)
	if e, is := core.AsException(res); !is {
		t.Fatal("should have failed")
	} else if key, _ := e.Unwrapped(); key != core.OutOfRangeKey {
		t.Fatal(key)
	}

	res = s.SafeEvalString(ctx, `printMode("full"); printMode()`)
	if res.String() != "full" {
		t.Fatalf("%v", res)
	}
	if s.RT.PrintMode != core.PrintFull {
		t.Fatal(s.RT.PrintMode)
	}
}

func TestServe(t *testing.T) {
	s, _, errOut := demoSession(t)
	ctx := context.Background()

	resp := s.serve(ctx, &EvalRequest{Id: "1", Eval: "6 * 7"})
	if resp.Id != "1" || resp.Error != nil || resp.Result != "42" {
		t.Fatalf("%#v", resp)
	}

	resp = s.serve(ctx, &EvalRequest{Id: "2", Eval: `symbolName(42)`})
	if resp.Error == nil {
		t.Fatalf("%#v", resp)
	}
	if resp.Error.Key != core.WrongTypeArgKey {
		t.Fatal(resp.Error.Key)
	}
	if resp.Error.Message == "" {
		t.Fatal("error should carry a message")
	}

	// Coupling failures go to the requester, not the console.
	if errOut.Len() != 0 {
		t.Fatalf("%q", errOut.String())
	}
}

func TestGensym(t *testing.T) {
	a, b := Gensym(16), Gensym(16)
	if len(a) != 16 || len(b) != 16 {
		t.Fatal(a, b)
	}
	if a == b {
		t.Fatal("should differ")
	}
}

func TestParsePrintMode(t *testing.T) {
	if _, err := ParsePrintMode("loud"); err == nil {
		t.Fatal("should have failed")
	}
	m, err := ParsePrintMode("none")
	if err != nil {
		t.Fatal(err)
	}
	if m != core.PrintNone {
		t.Fatal(m)
	}
}
