// Package session issues, refreshes and validates the stateless access and
// refresh tokens that authenticate API calls.
//
// # Token lifecycle
//
// [Service.Issue] mints an access/refresh pair bound to a subject and a role.
// [Service.Refresh] mints a new access token from a refresh token; the refresh
// token itself is not rotated and stays usable until it expires.
// [Service.ValidateAccess] checks signature, expiry, token type and role.
//
// # Revocation
//
// Validation is stateless by default: a leaked token works until it expires.
// Supplying a [Denylist] turns on jti-keyed revocation through [Service.Revoke];
// every validation and refresh then costs one Redis round-trip.
//
// # What this package must NOT do
//
//   - Import mediaguard (no upward imports).
//   - Persist sessions: the only server-side state is the optional denylist.
package session
