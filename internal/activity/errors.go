package activity

import "fmt"

// InvariantError reports a violation of the activity's structural
// rules: setters called out of order, unknown entry points, input
// files that do not cover the skeleton. These are configuration
// errors and fail at assignment time.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string {
	return "activity invariant violated: " + e.Reason
}

// NotFoundError reports a skeleton or context file missing from disk.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}
