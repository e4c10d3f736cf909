// Package audit relays security-relevant events to a sink off the request path.
//
// The Engine decides which events to emit; this package only buffers and
// delivers them. A [Dispatcher] either drops events when its buffer is full
// (counted, see [Dispatcher.Dropped]) or blocks the caller until there is room.
package audit
