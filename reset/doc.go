// Package reset issues and consumes single-use password-reset tokens.
//
// Tokens are opaque 256-bit random strings persisted as records through a
// [Repository]. A record is active until consumed or superseded, and expires
// after the configured TTL. Not-found and expired tokens fail identically so
// callers cannot distinguish them.
//
// # What this package must NOT do
//
//   - Hash passwords: callers pass an already hashed value to ConsumeToken.
//   - Send email: delivery of the token is the caller's concern.
package reset
