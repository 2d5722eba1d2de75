package tree

import (
	"sync"

	"github.com/arthur-debert/carton/pkg/conditions"
	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/mitchellh/copystructure"
)

// Database pairs a raw configuration tree with its reduced view. The view
// is rebuilt after every mutation and never persisted.
type Database struct {
	mu      sync.RWMutex
	raw     types.Tree
	reduced types.Tree
	facts   types.Facts
	eval    conditions.Evaluator
}

// NewDatabase builds a database over raw. raw is owned by the database
// afterwards.
func NewDatabase(raw types.Tree, facts types.Facts, eval conditions.Evaluator) (*Database, error) {
	if raw == nil {
		raw = types.Tree{}
	}
	if eval == nil {
		eval = conditions.New()
	}

	d := &Database{raw: raw, facts: facts, eval: eval}
	if err := d.rebuild(); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns a copy of the value at path, from the raw tree or from the
// reduced view. The second result is false when the path does not exist.
func (d *Database) Get(raw bool, path ...string) (interface{}, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var current interface{} = d.reduced
	if raw {
		current = d.raw
	}

	for _, key := range path {
		node, ok := AsMapping(current)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}

	return clone(current), true
}

// Set assigns value at path. Each condition selects, or appends, the patch
// entry guarded by exactly that condition at the current level, so
// conditions nest in the order given.
func (d *Database) Set(path []string, value interface{}, conditionList ...string) error {
	if len(path) == 0 {
		return errors.New(errors.ErrInvalidInput, "cannot set a value without a path")
	}

	copied, err := copystructure.Copy(value)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "cannot store value of type %T", value)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	snapshot := clone(d.raw).(types.Tree)

	node, err := descendConditions(d.raw, conditionList)
	if err != nil {
		d.raw = snapshot
		return err
	}

	for _, key := range path[:len(path)-1] {
		if node, err = child(node, key, true); err != nil {
			d.raw = snapshot
			return err
		}
	}
	node[path[len(path)-1]] = copied

	if err := d.rebuild(); err != nil {
		d.raw = snapshot
		return err
	}
	return nil
}

// Unset removes the key at path. It reports whether anything was removed.
func (d *Database) Unset(path []string, conditionList ...string) (bool, error) {
	if len(path) == 0 {
		return false, errors.New(errors.ErrInvalidInput, "cannot unset a value without a path")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	snapshot := clone(d.raw).(types.Tree)

	node, err := findConditions(d.raw, conditionList)
	if err != nil || node == nil {
		return false, err
	}

	for _, key := range path[:len(path)-1] {
		next, err := child(node, key, false)
		if err != nil {
			return false, err
		}
		if next == nil {
			return false, nil
		}
		node = next
	}

	last := path[len(path)-1]
	if _, ok := node[last]; !ok {
		return false, nil
	}
	delete(node, last)

	if err := d.rebuild(); err != nil {
		d.raw = snapshot
		return false, err
	}
	return true, nil
}

// Raw returns a copy of the raw tree for persistence
func (d *Database) Raw() types.Tree {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return clone(d.raw).(types.Tree)
}

// Reduced returns a copy of the reduced view
func (d *Database) Reduced() types.Tree {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return clone(d.reduced).(types.Tree)
}

// Refresh recomputes the reduced view against new facts
func (d *Database) Refresh(facts types.Facts) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	previous := d.facts
	d.facts = facts
	if err := d.rebuild(); err != nil {
		d.facts = previous
		return err
	}
	return nil
}

func (d *Database) rebuild() error {
	reduced, err := ReduceTree(d.raw, d.facts, d.eval)
	if err != nil {
		return err
	}
	d.reduced = reduced
	return nil
}

// descendConditions walks, creating as needed, the chain of patch entries
// guarded by conditionList
func descendConditions(node types.Tree, conditionList []string) (types.Tree, error) {
	for _, condition := range conditionList {
		patches, err := patchList(node)
		if err != nil {
			return nil, err
		}

		var entry types.Tree
		for i, candidate := range patches {
			mapping, ok := AsMapping(candidate)
			if !ok {
				continue
			}
			if guard, ok := mapping[types.KeyIf].(string); ok && guard == condition {
				entry = mapping
				patches[i] = mapping
				break
			}
		}

		if entry == nil {
			entry = types.Tree{types.KeyIf: condition}
			patches = append(patches, entry)
		}
		node[types.KeyPatch] = patches
		node = entry
	}
	return node, nil
}

// findConditions walks the chain of patch entries guarded by conditionList
// without creating anything. It returns nil when the chain does not exist.
func findConditions(node types.Tree, conditionList []string) (types.Tree, error) {
	for _, condition := range conditionList {
		raw, present := node[types.KeyPatch]
		if !present {
			return nil, nil
		}
		patches, ok := raw.([]interface{})
		if !ok {
			return nil, invalidPatchList()
		}

		var entry types.Tree
		for _, candidate := range patches {
			mapping, ok := candidate.(map[string]interface{})
			if !ok {
				continue
			}
			if guard, ok := mapping[types.KeyIf].(string); ok && guard == condition {
				entry = mapping
				break
			}
		}
		if entry == nil {
			return nil, nil
		}
		node = entry
	}
	return node, nil
}

// patchList returns the node's patch list as a mutable slice
func patchList(node types.Tree) ([]interface{}, error) {
	raw, present := node[types.KeyPatch]
	if !present || raw == nil {
		return []interface{}{}, nil
	}
	if list, ok := raw.([]interface{}); ok {
		return list, nil
	}
	if list, ok := AsSequence(raw); ok {
		return list, nil
	}
	return nil, invalidPatchList()
}

// child returns the mapping stored at key, creating it when allowed
func child(node types.Tree, key string, create bool) (types.Tree, error) {
	value, present := node[key]
	if !present || value == nil {
		if !create {
			return nil, nil
		}
		created := types.Tree{}
		node[key] = created
		return created, nil
	}

	if mapping, ok := value.(map[string]interface{}); ok {
		return mapping, nil
	}
	if mapping, ok := AsMapping(value); ok {
		node[key] = mapping
		return mapping, nil
	}

	return nil, errors.Newf(errors.ErrInvalidInput, "cannot descend into %q: value is %T, not a mapping", key, value).
		WithDetail("key", key)
}

func invalidPatchList() error {
	return errors.Newf(errors.ErrConfigValid,
		"configuration element '%s' has an unexpected format", types.KeyPatch).
		WithDetail("element", types.KeyPatch)
}

// clone deep-copies a value already stored in the database. Every stored
// value went through copystructure when it entered (Set copies, and
// NewDatabase reduces, which copies), so copying cannot fail here.
func clone(value interface{}) interface{} {
	return copystructure.Must(copystructure.Copy(value))
}
