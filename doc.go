// Package tether embeds a script runtime inside a native debug engine
// and keeps the two sides honest about object lifetimes and errors.
//
// The framework machinery is in package 'core', the engine-facing
// bindings in 'bindings', and the interactive shell with its service
// couplings in 'shell'.  Command-line tools are in `cmd`.
package tether
