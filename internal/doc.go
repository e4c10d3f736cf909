// Package internal holds helpers that are private to mediaguard.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher plus Sink implementations)
//   - rate: Redis fixed-window counters for password-reset throttling
//
// # What this package must NOT do
//
//   - Export types that appear in the public mediaguard API.
//   - Be imported by any package outside the mediaguard module.
package internal
