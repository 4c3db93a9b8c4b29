package scale

import "fmt"

// ValidationError reports a rejected value. Operations that return it leave
// all state unchanged.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
