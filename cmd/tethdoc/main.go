// Package main renders the reference page for the script-visible API:
// every defined function with its doc string, which is Markdown.
package main

import (
	"flag"
	"fmt"
	"html"
	"io"
	"io/ioutil"
	"os"
	"sort"

	"github.com/Comcast/tether/core"
	"github.com/Comcast/tether/engine"
	"github.com/Comcast/tether/shell"

	md "github.com/russross/blackfriday/v2"
)

func main() {

	var (
		filename = flag.String("o", "", "output filename (default stdout)")
		title    = flag.String("title", "tether script API", "page title")
	)

	flag.Parse()

	s := shell.NewSession(engine.NewFake(), ioutil.Discard, ioutil.Discard)

	var out io.Writer = os.Stdout
	if *filename != "" {
		f, err := os.Create(*filename)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	renderPage(out, *title, s.RT.Functions())
}

func renderPage(out io.Writer, title string, fns []core.FunctionSpec) {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
  </head>
  <body>
    <h1>%s</h1>`, html.EscapeString(title), html.EscapeString(title))

	sort.Slice(fns, func(i, j int) bool {
		return fns[i].Name < fns[j].Name
	})

	f(`<div class="functions"><table>`)
	for _, fn := range fns {
		f(`<tr class="function"><td><span id="%s" class="functionName"><code>%s</code></span></td><td>`,
			fn.Name, html.EscapeString(fn.Name))
		if fn.Doc != "" {
			f(`<div class="functionDoc doc">%s</div>`, md.Run([]byte(fn.Doc)))
		}
		f(`</td></tr>`)
	}
	f(`</table></div>`)

	f(`
  </body>
</html>`)
}
