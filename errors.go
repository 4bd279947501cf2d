package fluuyo

import "errors"

var (
	// ErrEmailNotVerified is returned by Login when the backend reports the
	// account's email as unverified. It is distinct from credential failures
	// so callers can route to a resend-verification flow.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrBuilderReused is returned by Build when a Builder is used twice.
	ErrBuilderReused = errors.New("builder already used")
	// ErrAlreadyStarted is returned by Start when the client is running.
	ErrAlreadyStarted = errors.New("client already started")
	// ErrMissingBaseURL is returned when the backend base URL is empty.
	ErrMissingBaseURL = errors.New("missing backend base url")
	// ErrInvalidBaseURL is returned when the base URL is not an http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid backend base url")
	// ErrInvalidTimeout is returned for non-positive request timeouts.
	ErrInvalidTimeout = errors.New("request timeouts must be positive")
	// ErrInvalidSuppressionGrace is returned for a negative suppression grace.
	ErrInvalidSuppressionGrace = errors.New("suppression grace must not be negative")
	// ErrInvalidRefreshSchedule is returned for an unparseable refresh schedule.
	ErrInvalidRefreshSchedule = errors.New("invalid session refresh schedule")
)
