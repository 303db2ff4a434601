// Package stacktrace extracts the application's own frames from the current
// goroutine, so panic logs stay short.
package stacktrace

import (
	"runtime"
	"strconv"
	"strings"
)

const maxDepth = 64

// Internal returns "internal/<pkg>/<file>.go:<line>" entries for the frames of
// this module, innermost first. skip counts callers above Internal to omit.
func Internal(skip int) []string {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var paths []string
	for {
		frame, more := frames.Next()
		if p, ok := internalPath(frame); ok {
			paths = append(paths, p)
		}
		if !more {
			break
		}
	}

	return paths
}

// internalPath ignores the toolchain's own internal/... packages; their
// function names carry no module path.
func internalPath(frame runtime.Frame) (string, bool) {
	if !strings.Contains(frame.Function, "/internal/") {
		return "", false
	}

	idx := strings.LastIndex(frame.File, "/internal/")
	if idx == -1 {
		return "", false
	}

	return frame.File[idx+1:] + ":" + strconv.Itoa(frame.Line), true
}
