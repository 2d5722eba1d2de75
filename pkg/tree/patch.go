package tree

import (
	"reflect"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/types"
)

// Patch deep-merges overlay into base and returns base.
//
// Nested mappings are merged recursively, sequences are appended (an
// existing scalar becomes the first element) and every other value
// overwrites.
func Patch(base, overlay types.Tree) (types.Tree, error) {
	if base == nil {
		return nil, errors.New(errors.ErrInvalidInput, "expected a mutable mapping but got nil")
	}
	if overlay == nil {
		return nil, errors.New(errors.ErrInvalidInput, "expected a mapping but got nil")
	}

	for key, value := range overlay {
		if nested, ok := AsMapping(value); ok {
			existing, present := base[key]
			target := types.Tree{}
			if present && existing != nil {
				target, ok = AsMapping(existing)
				if !ok {
					return nil, errors.Newf(errors.ErrInvalidInput,
						"expected a mutable mapping at %q but got %T", key, existing).
						WithDetail("key", key)
				}
			}
			merged, err := Patch(target, nested)
			if err != nil {
				return nil, err
			}
			base[key] = merged
			continue
		}

		if items, ok := AsSequence(value); ok {
			existing, present := base[key]
			var current []interface{}
			switch {
			case !present:
				current = []interface{}{}
			default:
				if seq, isSeq := AsSequence(existing); isSeq {
					current = seq
				} else {
					current = []interface{}{existing}
				}
			}
			base[key] = append(current, items...)
			continue
		}

		base[key] = value
	}

	return base, nil
}

// AsMapping reports whether value is a tree node
func AsMapping(value interface{}) (types.Tree, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case map[interface{}]interface{}:
		converted := make(types.Tree, len(v))
		for k, item := range v {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			converted[key] = item
		}
		return converted, true
	}
	return nil, false
}

// AsSequence reports whether value is a non-string sequence and returns its
// elements in a fresh slice
func AsSequence(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case nil, string, []byte:
		return nil, false
	case []interface{}:
		out := make([]interface{}, len(v))
		copy(out, v)
		return out, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
