package inventory

import "fmt"

// ValidationError reports a submitted record that does not match its category schema.
type ValidationError struct {
	Category Category
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StoreError wraps a failed backend read or write.
type StoreError struct {
	Op       string
	Category Category
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to %s %s records: %v", e.Op, e.Category, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
