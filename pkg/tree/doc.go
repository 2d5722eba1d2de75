// Package tree implements carton's configuration engine.
//
// The raw database is a nested mapping in which any node may carry two
// reserved keys: "if", a condition gating the node, and "patch", a list of
// sub-trees merged over the node in order. Reduce materializes a raw tree
// against the environment facts; Patch is the deep merge it is built on.
// Database keeps a raw tree and its reduced view in sync and offers
// path-based Get, Set and Unset.
package tree
