// errorlog.go
// Adapted from mmp-vice/pkg/util/error.go's ErrorLogger: same
// push/pop-a-hierarchy-of-context accumulator, retargeted from scenario
// JSON validation to per-record parse errors (spec §7's "malformed input
// ... reported with line-and-column context; non-fatal per record").
package util

import (
	"fmt"
	"strings"
)

// ErrorLog accumulates non-fatal errors encountered while validating or
// parsing a source file, tagged with the context (file, record, field)
// active when each was recorded. It lets an adapter keep going after a
// bad record instead of aborting the whole file.
type ErrorLog struct {
	hierarchy []string
	entries   []string
}

func (e *ErrorLog) Push(context string) {
	e.hierarchy = append(e.hierarchy, context)
}

func (e *ErrorLog) Pop() {
	e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
}

func (e *ErrorLog) Errorf(format string, args ...interface{}) {
	e.entries = append(e.entries, strings.Join(e.hierarchy, "/")+": "+fmt.Sprintf(format, args...))
}

func (e *ErrorLog) Error(err error) {
	e.entries = append(e.entries, strings.Join(e.hierarchy, "/")+": "+err.Error())
}

func (e *ErrorLog) HasErrors() bool {
	return len(e.entries) > 0
}

func (e *ErrorLog) Count() int {
	return len(e.entries)
}

func (e *ErrorLog) Entries() []string {
	return e.entries
}

func (e *ErrorLog) String() string {
	return strings.Join(e.entries, "\n")
}
