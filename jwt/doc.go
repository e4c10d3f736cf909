// Package jwt signs and verifies the compact, self-contained tokens used for
// sessions and download capabilities. A single shared secret and a symmetric
// HMAC algorithm are used; verification is stateless apart from the clock.
package jwt
