package dto

import "github.com/acmedash/invoice-api/internal/validation"

// MutationStatus discriminates MutationResult variants.
type MutationStatus int

const (
	// MutationSucceeded means the write landed, stale caches were
	// invalidated, and the caller should navigate to RedirectTo.
	MutationSucceeded MutationStatus = iota
	// MutationRejected means user-correctable validation failures; nothing
	// reached the store.
	MutationRejected
	// MutationFailed means the write itself failed. Message is generic and
	// user-safe; the underlying cause is logged, never surfaced.
	MutationFailed
	// MutationTargetMissing means the targeted record does not exist.
	MutationTargetMissing
)

// MutationResult is the tagged outcome of one mutation pipeline invocation.
// Exactly one variant applies; accessors on the wrong variant return zero
// values.
type MutationResult struct {
	status      MutationStatus
	message     string
	fieldErrors validation.FieldErrors
	redirectTo  string
}

// Succeeded builds the success variant. redirectTo may be empty (deletes,
// where the caller is already on the listing view).
func Succeeded(redirectTo string) MutationResult {
	return MutationResult{status: MutationSucceeded, redirectTo: redirectTo}
}

// Rejected builds the validation-failure variant.
func Rejected(errs validation.FieldErrors, summary string) MutationResult {
	return MutationResult{status: MutationRejected, fieldErrors: errs, message: summary}
}

// Failed builds the infrastructure-failure variant.
func Failed(message string) MutationResult {
	return MutationResult{status: MutationFailed, message: message}
}

// TargetMissing builds the not-found variant for update/delete.
func TargetMissing(message string) MutationResult {
	return MutationResult{status: MutationTargetMissing, message: message}
}

// Status returns the variant discriminator.
func (r MutationResult) Status() MutationStatus { return r.status }

// Message returns the summary (rejected) or generic (failed/missing) text.
func (r MutationResult) Message() string { return r.message }

// FieldErrors returns per-field messages. Non-nil only when rejected.
func (r MutationResult) FieldErrors() validation.FieldErrors {
	if r.status != MutationRejected {
		return nil
	}
	return r.fieldErrors
}

// RedirectTo returns the navigation target. Non-empty only on success.
func (r MutationResult) RedirectTo() string {
	if r.status != MutationSucceeded {
		return ""
	}
	return r.redirectTo
}
