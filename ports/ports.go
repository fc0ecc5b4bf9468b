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

// Package ports gives script code I/O: print routed through the
// engine's console streams, and seekable byte ports over target
// memory.  It is a plain consumer of the core's smob and exception
// machinery; it adds no contract of its own.
package ports

import (
	"fmt"
	"io"

	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"

	"github.com/dop251/goja"
)

// Ports installs the I/O surface into a runtime.
type Ports struct {
	rt  *core.Runtime
	mem engine.Memory

	// Out and ErrOut are where script print output goes.  The host
	// may swap these to redirect the console.
	Out    io.Writer
	ErrOut io.Writer

	memPortTag core.Tag
}

// New installs the console and memory-port functions.
func New(rt *core.Runtime, mem engine.Memory, out, errOut io.Writer) *Ports {
	p := &Ports{
		rt:         rt,
		mem:        mem,
		Out:        out,
		ErrOut:     errOut,
		memPortTag: rt.NewTag("tether:memory-port"),
	}
	rt.Define(p.consoleFunctions())
	rt.Define(p.memPortFunctions())
	return p
}

func (p *Ports) consoleFunctions() []core.FunctionSpec {
	return []core.FunctionSpec{
		{
			Name: "print",
			Doc:  "Write the arguments, space separated and newline terminated, to the console output stream.",
			Fn: func(call goja.FunctionCall) goja.Value {
				p.write(p.Out, call, true)
				return goja.Undefined()
			},
		},
		{
			Name: "writeStdout",
			Doc:  "Write the arguments, unseparated and unterminated, to the console output stream.",
			Fn: func(call goja.FunctionCall) goja.Value {
				p.write(p.Out, call, false)
				return goja.Undefined()
			},
		},
		{
			Name: "writeStderr",
			Doc:  "Write the arguments, unseparated and unterminated, to the console error stream.",
			Fn: func(call goja.FunctionCall) goja.Value {
				p.write(p.ErrOut, call, false)
				return goja.Undefined()
			},
		},
	}
}

func (p *Ports) write(w io.Writer, call goja.FunctionCall, line bool) {
	if w == nil {
		return
	}
	for i, a := range call.Arguments {
		if line && 0 < i {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, a.String())
	}
	if line {
		fmt.Fprintln(w)
	}
}
