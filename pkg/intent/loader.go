package intent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/ifcheck/pkg/util"
)

// document accepts both the short list names and the variable names used by
// the interfaces provisioning role.
type document struct {
	Ether      []Interface `yaml:"ether_interfaces"`
	Bridge     []Interface `yaml:"bridge_interfaces"`
	Bond       []Interface `yaml:"bond_interfaces"`
	RoleEther  []Interface `yaml:"interfaces_ether_interfaces"`
	RoleBridge []Interface `yaml:"interfaces_bridge_interfaces"`
	RoleBond   []Interface `yaml:"interfaces_bond_interfaces"`
}

// Parse decodes and validates an intent document.
func Parse(data []byte) (*File, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing intent: %w: %v", util.ErrInvalidIntent, err)
	}

	f := &File{
		Ether:  append(doc.Ether, doc.RoleEther...),
		Bridge: append(doc.Bridge, doc.RoleBridge...),
		Bond:   append(doc.Bond, doc.RoleBond...),
	}
	if err := Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Load reads and validates an intent file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading intent %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	util.Debugf("loaded %d interfaces from %s", f.Len(), path)
	return f, nil
}

// ParseInterface decodes and validates a single interface document.
func ParseInterface(data []byte) (*Interface, error) {
	var iface Interface
	if err := yaml.Unmarshal(data, &iface); err != nil {
		return nil, fmt.Errorf("parsing interface: %w: %v", util.ErrInvalidIntent, err)
	}
	if err := iface.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", util.ErrInvalidIntent, err)
	}
	return &iface, nil
}

// FromValue converts a generic value, such as template data decoded from
// YAML or JSON, into an Interface.
func FromValue(v any) (*Interface, error) {
	switch t := v.(type) {
	case *Interface:
		return t, nil
	case Interface:
		return &t, nil
	case string:
		return Member(t), nil
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding interface: %w: %v", util.ErrInvalidIntent, err)
	}
	return ParseInterface(data)
}
