package inlinestr

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalText returns a copy of the UTF-8 bytes. Through it
// encoding/json and encoding/xml write a Str exactly as they write a
// string, map keys included.
func (s Str) MarshalText() ([]byte, error) {
	return []byte(s.View()), nil
}

// UnmarshalText replaces s with a copy of b. Invalid UTF-8 is rejected
// and leaves s unchanged.
func (s *Str) UnmarshalText(b []byte) error {
	v, err := FromBytes(b)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalBinary returns the raw UTF-8 bytes; see MarshalText.
func (s Str) MarshalBinary() ([]byte, error) {
	return s.MarshalText()
}

// UnmarshalBinary is UnmarshalText for encoding/gob and friends.
func (s *Str) UnmarshalBinary(b []byte) error {
	return s.UnmarshalText(b)
}

// MarshalYAML encodes s as a YAML string, quoted where a plain scalar
// would resolve to another type.
func (s Str) MarshalYAML() (any, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts any scalar and keeps its text. !!binary scalars
// are decoded first and must hold UTF-8.
func (s *Str) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("inlinestr: cannot unmarshal YAML %s into Str at line %d", kindName(node.Kind), node.Line)
	}
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := From(raw)
	if err != nil {
		return fmt.Errorf("inlinestr: YAML scalar at line %d: %w", node.Line, err)
	}
	*s = v
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	default:
		return "scalar"
	}
}
