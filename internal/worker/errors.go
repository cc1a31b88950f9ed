package worker

import (
	"fmt"
	"strings"
)

// UnsupportedError reports Run being called on a worker whose Supports
// rejected the activity. This is a contract violation by the caller,
// not a grading outcome.
type UnsupportedError struct {
	WorkerName string
	EntryPoint string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s worker does not support entry point %q", e.WorkerName, e.EntryPoint)
}

// NotRegisteredError reports a registry lookup for an unknown worker
// name.
type NotRegisteredError struct {
	Name       string
	Registered []string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("worker %q is not registered (have: %s)",
		e.Name, strings.Join(e.Registered, ", "))
}

// NoSupportingWorkerError reports a chained dispatch where none of the
// candidates supported the entry point.
type NoSupportingWorkerError struct {
	EntryPoint string
	Candidates []string
}

func (e *NoSupportingWorkerError) Error() string {
	return fmt.Sprintf("no worker supports entry point %q (tried: %s)",
		e.EntryPoint, strings.Join(e.Candidates, ", "))
}
