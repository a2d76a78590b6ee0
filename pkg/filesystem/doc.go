// Package filesystem provides filesystem implementations for dotsync.
//
// This package contains implementations of the types.FS interface: the
// standard OS filesystem used by the binary, an afero-backed filesystem used
// by tests, and the CopyFile helper every copy in a sync plan goes through.
package filesystem
