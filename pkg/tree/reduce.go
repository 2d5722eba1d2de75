package tree

import (
	"github.com/arthur-debert/carton/pkg/conditions"
	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/mitchellh/copystructure"
)

// Reduce materializes node against facts.
//
// Non-mapping nodes are returned unchanged. A mapping whose condition does
// not hold reduces to an empty mapping. Otherwise the result is a copy of
// the node without its reserved keys, with nested mappings reduced, and
// every entry of its patch list reduced and patched over it in order.
// node itself is never modified.
func Reduce(node interface{}, facts types.Facts, eval conditions.Evaluator) (interface{}, error) {
	mapping, ok := AsMapping(node)
	if !ok {
		return node, nil
	}

	holds, err := eval.Evaluate(mapping[types.KeyIf], facts)
	if err != nil {
		return nil, err
	}
	if !holds {
		return types.Tree{}, nil
	}

	reduced := make(types.Tree, len(mapping))
	for key, value := range mapping {
		if key == types.KeyIf || key == types.KeyPatch {
			continue
		}

		if _, nested := AsMapping(value); nested {
			child, err := Reduce(value, facts, eval)
			if err != nil {
				return nil, err
			}
			reduced[key] = child
			continue
		}

		copied, err := copystructure.Copy(value)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "cannot copy value at %q", key).
				WithDetail("key", key)
		}
		reduced[key] = copied
	}

	patches, present := mapping[types.KeyPatch]
	if !present || patches == nil {
		return reduced, nil
	}

	entries, ok := AsSequence(patches)
	if !ok {
		return nil, errors.Newf(errors.ErrConfigValid,
			"configuration element '%s' has an unexpected format", types.KeyPatch).
			WithDetail("element", types.KeyPatch)
	}

	for i, entry := range entries {
		if _, isMapping := AsMapping(entry); !isMapping {
			return nil, errors.Newf(errors.ErrConfigValid,
				"patch entry %d is %T, expected a mapping", i, entry).
				WithDetail("element", types.KeyPatch)
		}

		overlay, err := Reduce(entry, facts, eval)
		if err != nil {
			return nil, err
		}

		// Reduce of a mapping always yields a Tree.
		if reduced, err = Patch(reduced, overlay.(types.Tree)); err != nil {
			return nil, err
		}
	}

	return reduced, nil
}

// ReduceTree reduces a whole database
func ReduceTree(raw types.Tree, facts types.Facts, eval conditions.Evaluator) (types.Tree, error) {
	if raw == nil {
		raw = types.Tree{}
	}
	reduced, err := Reduce(raw, facts, eval)
	if err != nil {
		return nil, err
	}
	return reduced.(types.Tree), nil
}
