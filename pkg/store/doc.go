// Package store persists configuration trees to files.
//
// The codec is chosen by file extension: .json, .yaml/.yml or .toml. A
// missing file reads as an empty tree. A file that cannot be decoded is
// reported as corrupt so the owner can Quarantine it and start over.
package store
