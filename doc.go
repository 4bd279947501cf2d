// Package fluuyo is the client SDK for the Fluuyo micro-lending backend.
// It owns the authenticated-session lifecycle on the client side: token
// persistence, boot-time session restore, single-flight refresh, login and
// registration flows, centralized 401/403 handling, cross-process session
// synchronization, and the role-based routing layer screens consume.
//
// The package is the public surface. It exposes [Client], [Builder],
// [Config], the routing gates, and value types (SessionState, GateResult).
// The REST surface lives in the api subpackage and the wire mechanics in
// transport; the bearer token never leaves the token subpackage's Store.
//
// # Architecture boundaries
//
//   - Session state is owned by a [Client] built through [Builder.Build];
//     there is no package-level singleton, so multiple clients can coexist
//     in tests and embeddings.
//   - Authenticated-ness is derived solely from the presence of a user
//     record. No independent flag can desynchronize from it.
//   - Business rules (underwriting, installment math, document review) are
//     backend-owned; this package transports them and never re-validates.
//
// # Failure posture
//
// A failed or impossible session restore degrades to the anonymous state
// and routes to login; it never blocks the shell or surfaces as a fatal
// error. Login and registration failures propagate verbatim so callers can
// branch on backend error codes.
package fluuyo
