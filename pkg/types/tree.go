package types

// Reserved keys of a configuration tree node
const (
	KeyIf    = "if"
	KeyPatch = "patch"
)

// Tree is a nested configuration mapping. Values are scalars, sequences
// ([]interface{}), nested Trees or nil.
type Tree = map[string]interface{}

// Facts describes the environment conditions are evaluated against
type Facts = map[string]interface{}

// GetRequest is the argument of the "get" proc
type GetRequest struct {
	Path []string
	// Raw reads the stored tree instead of the reduced view
	Raw bool
}

// SetRequest is the argument of the "set" proc
type SetRequest struct {
	Path  []string
	Value interface{}
	// Conditions nest the assignment inside conditional patches
	Conditions []string
}

// UnsetRequest is the argument of the "unset" proc
type UnsetRequest struct {
	Path       []string
	Conditions []string
}
