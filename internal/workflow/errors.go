package workflow

import "fmt"

// ValidationError reports a missing or malformed request field. It is
// returned before any store access.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports a missing client, template, or step list. Nothing
// has been written when it is returned.
type NotFoundError struct {
	Kind string // "Client", "Template" or "Workflow steps"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// StoreError wraps a collaborator failure. Tasks created before the
// failure stay persisted; Created counts them.
type StoreError struct {
	Op      string
	Step    int
	Created int
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
