package baggage

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// StrictTODOEnv is the environment toggle for strict TODO mode. When it
// parses as true (strconv.ParseBool), TODO aborts the process instead
// of returning a bag. Intended for CI and test runs that must not let
// placeholder bags reach production code paths. Off by default; read on
// every call so tests can flip it.
const StrictTODOEnv = "SERVICECONTEXT_STRICT_TODO"

// TODOLocation records where and why a placeholder bag was created.
type TODOLocation struct {
	// Reason is the caller-supplied explanation, possibly empty.
	Reason string

	// File and Line identify the TODO call site.
	File string
	Line int
}

func (l TODOLocation) String() string {
	if l.Reason == "" {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}

	return fmt.Sprintf("%s:%d (%s)", l.File, l.Line, l.Reason)
}

// TODOKey is the key under which TODO records its diagnostic entry.
// Exported so audit tooling can detect bags that were never properly
// threaded from an authoritative source:
//
//	if loc, ok := baggage.Get[baggage.TODOKey](bag); ok {
//	    log.Warn("placeholder baggage", "origin", loc)
//	}
type TODOKey struct{ Slot[TODOLocation] }

// BaggageName implements Named.
func (TODOKey) BaggageName() string {
	return "todo"
}

// TODO returns a bag holding a single diagnostic entry that records the
// call site and reason. Use it where a properly propagated bag is not
// (yet) available, so the gap is searchable instead of silently passing
// TopLevel. Under strict mode (StrictTODOEnv) it aborts the process.
func TODO(reason string) Baggage {
	_, file, line, _ := runtime.Caller(1)
	loc := TODOLocation{Reason: reason, File: file, Line: line}

	if strictTODO() {
		fmt.Fprintf(os.Stderr, "baggage: TODO bag created at %s with %s enabled\n", loc, StrictTODOEnv)
		os.Exit(1)
	}

	return Set[TODOKey](TopLevel(), loc)
}

func strictTODO() bool {
	strict, err := strconv.ParseBool(os.Getenv(StrictTODOEnv))
	return err == nil && strict
}
