// Package types defines the core types and interfaces used throughout carton.
// This includes the Module and Host contracts, the handler table modules use
// to declare their hooks and procs, hook results and filters, and the tree
// and request types exchanged with the config module.
package types
