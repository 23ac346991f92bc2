package monitor

import "fmt"

// InputError indicates a user-correctable request problem, such as empty
// article text. API layers should map it to a 4xx status.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

// FetchError indicates article content could not be downloaded or extracted.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch article from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StoreWriteError indicates the monitor index could not be persisted. The
// in-memory state is rolled back before this is returned, so memory and disk
// never diverge.
type StoreWriteError struct {
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("failed to persist monitor index: %v", e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// StoreReadError indicates a persisted monitor index could not be read. The
// store recovers by rebuilding a fresh index, so this appears in logs rather
// than in return values.
type StoreReadError struct {
	Err error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("failed to read monitor index: %v", e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

// UpstreamError indicates an external service (reasoning engine, embedding
// provider) could not be reached or did not respond in time. It is distinct
// from FormatError: the question was never answered.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// FormatError indicates the reasoning engine responded, but its output never
// validated against the verdict schema within the allowed retries. Callers
// must treat this as a degraded evaluation, not as "no risk".
type FormatError struct {
	Attempts     int
	Reason       string
	LastResponse string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("classification output invalid after %d attempt(s): %s", e.Attempts, e.Reason)
}

// DispatchError indicates an alert notification could not be delivered.
// Delivery is best-effort: the pipeline logs this and never returns it to
// the caller.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("alert delivery failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
