package store

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/tree"
	"github.com/arthur-debert/carton/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Codec converts trees to and from bytes
type Codec interface {
	Decode(data []byte) (types.Tree, error)
	Encode(t types.Tree) ([]byte, error)
}

type jsonCodec struct{}

func (jsonCodec) Decode(data []byte) (types.Tree, error) {
	var t types.Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return t, nil
}

func (jsonCodec) Encode(t types.Tree) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type yamlCodec struct{}

func (yamlCodec) Decode(data []byte) (types.Tree, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return types.Tree{}, nil
	}
	t, ok := normalize(raw).(types.Tree)
	if !ok {
		return nil, errors.New(errors.ErrCorruptState, "document root is not a mapping")
	}
	return t, nil
}

func (yamlCodec) Encode(t types.Tree) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type tomlCodec struct{}

func (tomlCodec) Decode(data []byte) (types.Tree, error) {
	var t types.Tree
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return normalize(t).(types.Tree), nil
}

func (tomlCodec) Encode(t types.Tree) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CodecFor picks a codec from a file name
func CodecFor(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return jsonCodec{}, nil
	case ".yaml", ".yml":
		return yamlCodec{}, nil
	case ".toml":
		return tomlCodec{}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported file format: '%s'", path).
			WithDetail("path", path)
	}
}

// normalize turns decoder-specific containers into Trees and
// []interface{} so every codec yields the same shapes
func normalize(value interface{}) interface{} {
	if m, ok := tree.AsMapping(value); ok {
		out := make(types.Tree, len(m))
		for k, v := range m {
			out[k] = normalize(v)
		}
		return out
	}
	if s, ok := tree.AsSequence(value); ok {
		out := make([]interface{}, len(s))
		for i, v := range s {
			out[i] = normalize(v)
		}
		return out
	}
	return value
}
