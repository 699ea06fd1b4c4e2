package console

import "errors"

// Console errors returned by Session operations.
var (
	// ErrClosed indicates the session has been closed.
	ErrClosed = errors.New("console: session closed")

	// ErrNoDraft indicates an editing operation was invoked in list mode.
	ErrNoDraft = errors.New("console: no draft open")

	// ErrUnknownField indicates the field is not defined for the
	// session's collection.
	ErrUnknownField = errors.New("console: unknown field")

	// ErrValidation indicates the draft failed validation; the
	// field-scoped messages are available via FieldErrors.
	ErrValidation = errors.New("console: draft failed validation")

	// ErrAttachmentRejected indicates an upload was refused locally by
	// size or content type checks, before any storage call.
	ErrAttachmentRejected = errors.New("console: attachment rejected")
)
