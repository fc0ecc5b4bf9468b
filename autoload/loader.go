package autoload

import (
	"context"
	"log"
)

// Loader finds and runs per-objfile scripts.  Eval is supplied by the
// host (typically shell.Session.EvalAndReport) so this package doesn't
// need to know what evaluation or error presentation look like.
type Loader struct {
	Store    *Store    // optional
	Manifest *Manifest // optional

	// Eval runs a script.  A non-nil error means the script
	// failed; the loader logs it and keeps going.
	Eval func(ctx context.Context, src string) error

	Debug bool
}

func (l *Loader) logf(format string, args ...interface{}) {
	if l.Debug {
		log.Printf("autoload.Loader."+format, args...)
	}
}

// script finds the script for an objfile: store first, then manifest.
func (l *Loader) script(objfile string) (string, bool) {
	if l.Store != nil {
		src, have, err := l.Store.GetScript(objfile)
		if err != nil {
			log.Printf("autoload: store error for %s: %s", objfile, err)
		} else if have {
			return src, true
		}
	}
	if l.Manifest != nil {
		src, have := l.Manifest.Scripts[objfile]
		return src, have
	}
	return "", false
}

// ObjfileLoaded runs the objfile's script, if it has one.  Script
// failure is reported and swallowed.
func (l *Loader) ObjfileLoaded(ctx context.Context, objfile string) {
	src, have := l.script(objfile)
	if !have {
		l.logf("ObjfileLoaded %s: no script", objfile)
		return
	}
	l.logf("ObjfileLoaded %s: %d bytes", objfile, len(src))
	if l.Eval == nil {
		return
	}
	if err := l.Eval(ctx, src); err != nil {
		log.Printf("autoload: script for %s failed: %s", objfile, err)
	}
}
