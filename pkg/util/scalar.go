package util

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scalar is a string that accepts any YAML or JSON scalar when decoded.
// Numbers keep their literal text, so `prefix: 64` and `prefix: "64"`
// both decode to "64".
type Scalar string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	if node.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(node.Value)
	return nil
}

// String returns the scalar text.
func (s Scalar) String() string {
	return string(s)
}
