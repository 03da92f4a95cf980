package apperror

// AppError is a custom error type that includes an HTTP status code and a
// stable machine-readable reason for clients that branch on failure kind
// (e.g. "offer another slot" vs. generic failure toast).
type AppError struct {
	Code    int    // HTTP status code (e.g. 409, 422)
	Reason  string // Stable identifier, e.g. "slot_unavailable"
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)

	// Conflict optionally names the occupied interval that blocked the
	// request, so callers can present "this time was just taken".
	Conflict *ConflictDetail
}

// ConflictDetail describes the interval a rejected placement collided with.
type ConflictDetail struct {
	Start string `json:"start"` // "HH:MM"
	End   string `json:"end"`   // "HH:MM"
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code, reason and message.
func New(code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, reason, message string) *AppError {
	return &AppError{
		Code:    code,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}

// Is matches AppErrors by code and reason, so errors.Is still recognizes a
// sentinel after WithConflict produced a decorated copy.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code && t.Reason == e.Reason
}

// WithConflict returns a copy of e carrying the conflicting interval.
// Sentinel AppErrors are shared values, so the receiver is never mutated.
func (e *AppError) WithConflict(start, end string) *AppError {
	clone := *e
	clone.Conflict = &ConflictDetail{Start: start, End: end}
	return &clone
}
