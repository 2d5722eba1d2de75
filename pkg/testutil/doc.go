// Package testutil builds isolated carton environments for tests.
//
// NewTestEnvironment creates a temporary root holding the repository, the
// state directory, the refs directory and a fake home directory, and points
// HOME and the XDG variables at it so nothing outside the temporary
// directory is touched.
package testutil
