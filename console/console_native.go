//go:build !wasm
// +build !wasm

// Package console is the framework's logging facade.
//
// Native builds (tests, the dev server, the CLI) log through glog:
//
//	Log    abnormal or one-time lifecycle events (glog Info)
//	Warn   recoverable data problems such as unknown components (glog Warning)
//	Error  failed collaborator calls (glog Error)
//	Debug  per-event traces, enabled with -v=2 (glog V(2))
//
// js/wasm builds write to the browser console instead.
package console

import "github.com/golang/glog"

// DebugLevel is the glog verbosity at which Debug output is emitted.
const DebugLevel glog.Level = 2

// Log records an informational message.
func Log(args ...any) {
	glog.InfoDepth(1, sprint(args))
}

// Warn records a recoverable problem.
func Warn(args ...any) {
	glog.WarningDepth(1, sprint(args))
}

// Error records a failure.
func Error(args ...any) {
	glog.ErrorDepth(1, sprint(args))
}

// Debug records a trace message when verbosity is at least DebugLevel.
func Debug(args ...any) {
	if glog.V(DebugLevel) {
		glog.InfoDepth(1, sprint(args))
	}
}
