// Package filesystem provides implementations of types.FS.
//
// NewOS is used by the running program. NewAferoFS wraps an afero.Fs so
// persistence code can be tested against an in-memory filesystem.
package filesystem
