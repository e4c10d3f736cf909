// Package rate implements the Redis fixed-window counters that throttle
// password-reset requests and confirmations.
//
// # Window semantics
//
// INCR, then EXPIRE on the first hit of a window. Key prefixes:
//   - mgrr:  reset requests per email
//   - mgrri: reset requests per IP
//   - mgrc:  reset confirmations per IP
package rate
