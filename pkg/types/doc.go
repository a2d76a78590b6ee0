// Package types defines the small interfaces shared across dotsync.
// The filesystem abstraction lives here so that the hasher, tracking store,
// resolver and reconciliation engine can all run against an in-memory
// filesystem in tests.
package types
