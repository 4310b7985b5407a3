package types

import "fmt"

// ValidationError is a client-caused failure. Message is safe to return to
// the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// UploadError wraps a failed photo upload to object storage.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload photo %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed insert of a leave record.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save leave record: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// QueryError wraps a failed read of leave records.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query leave records: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// AssemblyError wraps a failure while building an export bundle. Nothing has
// been streamed when it is returned.
type AssemblyError struct {
	Step string
	Err  error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble export (%s): %v", e.Step, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }
