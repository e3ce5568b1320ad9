package facts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/ifcheck/pkg/util"
)

// wrapperKey holds the facts in raw `setup` module output.
const wrapperKey = "ansible_facts"

// Decode parses a YAML or JSON facts document into a Snapshot.
//
// The document is either a flat mapping of fact names to values or the raw
// output of the setup module, where the facts sit under "ansible_facts".
// Facts stored without the "ansible_" prefix (as the fact cache does for
// namespaced facts) are indexed under their prefixed name too. Facts that are
// not interfaces or default routes are ignored.
func Decode(data []byte) (*Snapshot, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing facts: %w", err)
	}

	if wrapped, ok := raw[wrapperKey]; ok && wrapped.Kind == yaml.MappingNode {
		raw = nil
		if err := wrapped.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", wrapperKey, err)
		}
	}

	snap := NewSnapshot()

	// Prefixed names win over unprefixed aliases, so handle them first.
	var unprefixed []string
	for name := range raw {
		if strings.HasPrefix(name, FactPrefix) {
			decodeFact(snap, name, raw[name])
		} else {
			unprefixed = append(unprefixed, name)
		}
	}
	for _, name := range unprefixed {
		full := FactPrefix + name
		if _, ok := raw[full]; ok {
			continue
		}
		decodeFact(snap, full, raw[name])
	}

	return snap, nil
}

func decodeFact(snap *Snapshot, name string, node yaml.Node) {
	if node.Kind != yaml.MappingNode {
		return
	}

	switch name {
	case DefaultIPv4Fact, DefaultIPv6Fact:
		var route DefaultRoute
		if err := node.Decode(&route); err != nil {
			util.WithField("fact", name).Debugf("skipping malformed default route: %v", err)
			return
		}
		if name == DefaultIPv4Fact {
			snap.defaultIPv4 = &route
		} else {
			snap.defaultIPv6 = &route
		}
		return
	}

	if !hasKey(&node, "device") && !hasKey(&node, "active") {
		return
	}
	var fact InterfaceFact
	if err := node.Decode(&fact); err != nil {
		util.WithField("fact", name).Debugf("skipping malformed interface fact: %v", err)
		return
	}
	snap.interfaces[name] = &fact
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// LoadFile reads a facts document from path.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("reading facts %s: %w", path, util.ErrFactsNotFound)
		}
		return nil, fmt.Errorf("reading facts %s: %w", path, err)
	}
	snap, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
