// Package cache implements the namespaced read-through cache used by list and
// detail endpoints.
//
// Entries are addressed by (prefix, logical key, parameter slug). The prefix
// and logical key select a storage group (one Redis hash); the slug selects a
// field inside it. A group shares one TTL, and every write resets it.
//
// The cache is a disposable projection of the primary store. A [Namespace.Get]
// miss is a normal result, while backend failures surface as
// [ErrBackendUnavailable] so callers decide whether to bypass the cache.
package cache
