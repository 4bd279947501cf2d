// Package transport performs single request/response exchanges with the
// Fluuyo backend, uniformly across JSON, binary, and multipart payloads.
//
// Every exchange carries an intrinsic timeout enforced through context
// cancellation; the caller's context is OR-combined with it, so whichever
// fires first cancels the request. Failures map onto a closed error set:
// [*RequestError] for non-2xx responses, [*TimeoutError] for any
// cancellation, [*NetworkError] for everything else at the transport level.
//
// The client injects the bearer token it obtains from its [TokenSource] and
// reports 401/403 responses to a single process-wide unauthorized handler
// before evaluating the request's own outcome. The handler is a pure
// observer: a panicking handler is contained and never corrupts the
// request's error path.
package transport
