// Package mediaguard is the credential and access core of a media-content
// backend: session tokens for API calls, capability URLs for audio downloads,
// one-time password-reset tokens, a namespaced response cache and the
// ordering of manually ranked channels.
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build]. Build the Engine once at process
// start and pass it to handlers; there is no package-level state.
//
// # Architecture boundaries
//
// mediaguard is the public surface. It exposes [Engine], [Builder], [Config]
// and value types. Token, capability, reset, cache and rank logic live in
// their own packages and know nothing about each other; the Engine wires them
// together and adds logging, audit and metrics.
//
// # What this package must NOT do
//
//   - Send email or run the download worker (both are external collaborators).
//   - Serve HTTP itself; see package middleware for request guards.
//   - Import any sub-package that re-imports mediaguard.
//
// # Performance contract
//
// ValidateAccess is the hot path. With revocation disabled it performs no I/O.
package mediaguard
