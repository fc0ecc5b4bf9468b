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

// Package main is the tether shell: a script runtime bound to a demo
// engine, with optional websocket and MQTT couplings and an
// auto-loaded script store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/Comcast/tether/autoload"
	"github.com/Comcast/tether/engine"
	"github.com/Comcast/tether/shell"
)

func main() {

	var (
		dbFile       = flag.String("d", "", "script store filename (optional)")
		manifestFile = flag.String("m", "", "autoload manifest filename (optional)")

		wsAddr     = flag.String("w", "", "address for the websocket service (optional)")
		mqttBroker = flag.String("q", "", "MQTT broker for the MQTT coupling (optional)")

		listenOnStdin = flag.Bool("I", true, "run a REPL on stdin")
		expr          = flag.String("e", "", "expression to evaluate")
		printMode     = flag.String("p", "message", "how uncaught exceptions print: none, message, or full")
		verbose       = flag.Bool("v", false, "verbosity")
	)

	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := demoEngine()

	s := shell.NewSession(eng, os.Stdout, os.Stderr)
	s.Debug = *verbose
	s.RT.Debug = *verbose

	mode, err := shell.ParsePrintMode(*printMode)
	if err != nil {
		log.Fatal(err)
	}
	s.RT.PrintMode = mode

	loader := &autoload.Loader{
		Eval:  s.EvalAndReport,
		Debug: *verbose,
	}

	if *dbFile != "" {
		store := autoload.NewStore(*dbFile)
		store.Debug = *verbose
		if err := store.Open(); err != nil {
			log.Fatal(err)
		}
		defer store.Close()
		loader.Store = store
	}

	if *manifestFile != "" {
		manifest, err := autoload.LoadManifest(*manifestFile)
		if err != nil {
			log.Fatal(err)
		}
		loader.Manifest = manifest
	}

	for _, of := range eng.Objfiles() {
		loader.ObjfileLoaded(ctx, of.Name())
	}

	for _, filename := range flag.Args() {
		bs, err := ioutil.ReadFile(filename)
		if err != nil {
			log.Fatal(err)
		}
		if err := s.EvalAndReport(ctx, string(bs)); err != nil {
			log.Fatalf("%s: %s", filename, err)
		}
	}

	if *expr != "" {
		s.EvalAndPrint(ctx, *expr)
	}

	if *wsAddr != "" {
		go func() {
			if err := s.WebSocketService(ctx, *wsAddr); err != nil {
				log.Fatal(err)
			}
		}()
	}

	if *mqttBroker != "" {
		go func() {
			coupling := &shell.MQTTCoupling{Broker: *mqttBroker}
			if err := s.MQTTService(ctx, coupling); err != nil {
				log.Fatal(err)
			}
		}()
	}

	if *listenOnStdin {
		if err := s.REPL(ctx, os.Stdin); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *wsAddr != "" || *mqttBroker != "" {
		fmt.Println("listening")
		<-ctx.Done()
	}
}

// demoEngine builds a small fake engine so the shell has something to
// inspect: one objfile with a few symbols, types, frames, and a mapped
// memory region.
func demoEngine() *engine.Fake {
	eng := engine.NewFake()

	of := eng.AddObjfile("libdemo.so")
	st := eng.AddSymtab(of, "demo.c")

	tInt := eng.AddType(of, "int", engine.TypeCodeInt, 4)
	eng.AddType(of, "point", engine.TypeCodeStruct, 8,
		engine.Field{Name: "x", Type: tInt, BitPos: 0},
		engine.Field{Name: "y", Type: tInt, BitPos: 32})

	eng.AddSymbol(st, "main", tInt)
	eng.AddSymbol(st, "counter", tInt)

	eng.PushFrame("main", 0x1000)
	eng.PushFrame("compute", 0x1042)

	eng.Map(0x2000, []byte("queso is the best condiment"))

	return eng
}
