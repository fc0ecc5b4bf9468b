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

// Package shell is the top level: it assembles a runtime, the
// bindings, ports, and display over an engine, evaluates script
// source, and presents uncaught exceptions according to the runtime's
// print mode.  It also offers the REPL couplings (stdin, websocket,
// MQTT).
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/Comcast/tether/bindings"
	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/display"
	"github.com/Comcast/tether/engine"
	"github.com/Comcast/tether/ports"

	"github.com/dop251/goja"
	"github.com/gorhill/cronexpr"
)

// Session owns one runtime bound to one engine.
type Session struct {
	RT     *core.Runtime
	Binder *bindings.Binder
	Ports  *ports.Ports
	Disp   *display.Displayer
	Eng    engine.Engine

	// Out and ErrOut are the console streams.
	Out    io.Writer
	ErrOut io.Writer

	// Debug turns on chatty logging from the couplings.
	Debug bool
}

func (s *Session) logf(format string, args ...interface{}) {
	if s.Debug {
		log.Printf("shell.Session "+format, args...)
	}
}

// NewSession wires everything together.
func NewSession(eng engine.Engine, out, errOut io.Writer) *Session {
	rt := core.NewRuntime()
	s := &Session{
		RT:     rt,
		Binder: bindings.New(rt, eng),
		Eng:    eng,
		Out:    out,
		ErrOut: errOut,
	}
	s.Ports = ports.New(rt, eng, out, errOut)
	s.Disp = display.New(rt, errOut)
	rt.Define(s.envFunctions())
	return s
}

// SafeEvalString evaluates source and returns the result or an
// exception carrier.  It never unwinds.
func (s *Session) SafeEvalString(ctx context.Context, src string) goja.Value {
	return s.RT.SafeRunString(ctx, src)
}

// EvalAndReport evaluates source and, when the result is an uncaught
// exception, prints it (per the runtime's print mode) and returns it
// as a Go error.  This is the evaluation entry the auto-loader and the
// couplings use.
func (s *Session) EvalAndReport(ctx context.Context, src string) error {
	res := s.SafeEvalString(ctx, src)
	if e, is := core.AsException(res); is {
		s.RT.PrintException(s.ErrOut, e)
		return e
	}
	return nil
}

// EvalAndPrint evaluates source and prints the rendered result, or the
// uncaught exception.  This is the interactive entry.
func (s *Session) EvalAndPrint(ctx context.Context, src string) {
	res := s.SafeEvalString(ctx, src)
	if e, is := core.AsException(res); is {
		s.RT.PrintException(s.ErrOut, e)
		return
	}
	if res == nil || goja.IsUndefined(res) {
		return
	}
	fmt.Fprintln(s.Out, s.Disp.Render(res))
}

// REPL reads lines and evaluates them until EOF or context
// cancellation.
func (s *Session) REPL(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprintf(s.Out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.EvalAndPrint(ctx, line)
	}
}

// envFunctions are the conveniences every session gets: the same
// little utilities the interactive top level has always had.
func (s *Session) envFunctions() []core.FunctionSpec {
	return []core.FunctionSpec{
		{
			Name: "gensym",
			Doc:  "Generate a random string.",
			Fn: func(call goja.FunctionCall) goja.Value {
				return s.RT.ToValue(Gensym(32))
			},
		},
		{
			Name: "esc",
			Doc:  "URL query-escape the given string.",
			Fn: func(call goja.FunctionCall) goja.Value {
				str := s.RT.StringArg(call, 0, "esc")
				return s.RT.ToValue(url.QueryEscape(str))
			},
		},
		{
			Name: "cronNext",
			Doc:  "Return the next time, in RFC3339Nano UTC, matching the given cron expression.",
			Fn: func(call goja.FunctionCall) goja.Value {
				expr := s.RT.StringArg(call, 0, "cronNext")
				c, err := cronexpr.Parse(expr)
				if err != nil {
					s.RT.Throw(s.RT.NewOutOfRangeError("cronNext", 1,
						call.Argument(0), "Invalid cron expression"))
				}
				return s.RT.ToValue(c.Next(time.Now()).UTC().Format(time.RFC3339Nano))
			},
		},
		{
			Name: "printMode",
			Doc:  "Get or set how uncaught exceptions print: \"none\", \"message\", or \"full\".",
			Fn: func(call goja.FunctionCall) goja.Value {
				if len(call.Arguments) == 0 {
					return s.RT.ToValue(printModeName(s.RT.PrintMode))
				}
				mode := s.RT.StringArg(call, 0, "printMode")
				m, err := ParsePrintMode(mode)
				if err != nil {
					s.RT.Throw(s.RT.NewOutOfRangeError("printMode", 1,
						call.Argument(0), "Invalid print mode"))
				}
				s.RT.PrintMode = m
				return goja.Undefined()
			},
		},
	}
}

// ParsePrintMode maps a mode name to a core.PrintMode.
func ParsePrintMode(name string) (core.PrintMode, error) {
	switch name {
	case "none":
		return core.PrintNone, nil
	case "message":
		return core.PrintMessage, nil
	case "full":
		return core.PrintFull, nil
	}
	return 0, fmt.Errorf("bad print mode '%s'", name)
}

func printModeName(m core.PrintMode) string {
	switch m {
	case core.PrintNone:
		return "none"
	case core.PrintFull:
		return "full"
	default:
		return "message"
	}
}
