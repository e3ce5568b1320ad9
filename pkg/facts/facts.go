// Package facts models a snapshot of observed network-interface facts, as
// produced by Ansible fact gathering, and loads snapshots from the places
// such facts are usually kept.
package facts

import (
	"sort"
	"strings"

	"github.com/newtron-network/ifcheck/pkg/util"
)

// Well-known fact names.
const (
	FactPrefix      = "ansible_"
	DefaultIPv4Fact = "ansible_default_ipv4"
	DefaultIPv6Fact = "ansible_default_ipv6"
)

// Link types reported in the type field of an interface fact.
const (
	TypeEther   = "ether"
	TypeBridge  = "bridge"
	TypeBonding = "bonding"
)

var factNameReplacer = strings.NewReplacer("-", "_", ":", "_")

// FactName returns the name of the fact describing device. Dashes and colons
// become underscores, e.g. "eth0:1" -> "ansible_eth0_1".
func FactName(device string) string {
	return FactPrefix + factNameReplacer.Replace(device)
}

// IPv4Address is one IPv4 address bound to an interface.
type IPv4Address struct {
	Address   string `yaml:"address,omitempty" json:"address,omitempty"`
	Netmask   string `yaml:"netmask,omitempty" json:"netmask,omitempty"`
	Network   string `yaml:"network,omitempty" json:"network,omitempty"`
	Broadcast string `yaml:"broadcast,omitempty" json:"broadcast,omitempty"`
}

// IPv6Address is one IPv6 address bound to an interface.
type IPv6Address struct {
	Address string      `yaml:"address" json:"address"`
	Prefix  util.Scalar `yaml:"prefix" json:"prefix"`
	Scope   string      `yaml:"scope,omitempty" json:"scope,omitempty"`
}

// InterfaceFact is the observed state of one device.
type InterfaceFact struct {
	Device     string `yaml:"device,omitempty" json:"device,omitempty"`
	Active     bool   `yaml:"active" json:"active"`
	Type       string `yaml:"type,omitempty" json:"type,omitempty"`
	MACAddress string `yaml:"macaddress,omitempty" json:"macaddress,omitempty"`
	MTU        *int   `yaml:"mtu,omitempty" json:"mtu,omitempty"`

	IPv4            *IPv4Address  `yaml:"ipv4,omitempty" json:"ipv4,omitempty"`
	IPv4Secondaries []IPv4Address `yaml:"ipv4_secondaries,omitempty" json:"ipv4_secondaries,omitempty"`
	IPv6            []IPv6Address `yaml:"ipv6,omitempty" json:"ipv6,omitempty"`

	// Bridge ports
	Interfaces []string `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`

	// Bond state
	Mode   util.Scalar `yaml:"mode,omitempty" json:"mode,omitempty"`
	Miimon util.Scalar `yaml:"miimon,omitempty" json:"miimon,omitempty"`
	Slaves []string    `yaml:"slaves,omitempty" json:"slaves,omitempty"`
}

// PrimaryIPv4 returns the primary IPv4 address, if the fact has one.
func (f *InterfaceFact) PrimaryIPv4() (IPv4Address, bool) {
	if f.IPv4 == nil || f.IPv4.Address == "" {
		return IPv4Address{}, false
	}
	return *f.IPv4, true
}

// DefaultRoute is the ansible_default_ipv4/ansible_default_ipv6 fact.
type DefaultRoute struct {
	Gateway   string `yaml:"gateway,omitempty" json:"gateway,omitempty"`
	Interface string `yaml:"interface,omitempty" json:"interface,omitempty"`
	Address   string `yaml:"address,omitempty" json:"address,omitempty"`
}

// Snapshot is the set of facts for one host. A Snapshot must not be modified
// once it is being read; reads are safe from multiple goroutines.
type Snapshot struct {
	interfaces  map[string]*InterfaceFact
	defaultIPv4 *DefaultRoute
	defaultIPv6 *DefaultRoute
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{interfaces: make(map[string]*InterfaceFact)}
}

// SetInterface records the fact for device under its derived fact name.
func (s *Snapshot) SetInterface(device string, fact *InterfaceFact) *Snapshot {
	s.interfaces[FactName(device)] = fact
	return s
}

// SetDefaultIPv4 records the default IPv4 route.
func (s *Snapshot) SetDefaultIPv4(route *DefaultRoute) *Snapshot {
	s.defaultIPv4 = route
	return s
}

// SetDefaultIPv6 records the default IPv6 route.
func (s *Snapshot) SetDefaultIPv6(route *DefaultRoute) *Snapshot {
	s.defaultIPv6 = route
	return s
}

// Fact returns the interface fact stored under a fact name.
func (s *Snapshot) Fact(name string) (*InterfaceFact, bool) {
	f, ok := s.interfaces[name]
	return f, ok
}

// Interface returns the fact for device.
func (s *Snapshot) Interface(device string) (*InterfaceFact, bool) {
	return s.Fact(FactName(device))
}

// DefaultIPv4Gateway returns the default IPv4 gateway, if one is known.
func (s *Snapshot) DefaultIPv4Gateway() (string, bool) {
	return gateway(s.defaultIPv4)
}

// DefaultIPv6Gateway returns the default IPv6 gateway, if one is known.
func (s *Snapshot) DefaultIPv6Gateway() (string, bool) {
	return gateway(s.defaultIPv6)
}

func gateway(route *DefaultRoute) (string, bool) {
	if route == nil || route.Gateway == "" {
		return "", false
	}
	return route.Gateway, true
}

// FactNames returns the names of all interface facts, sorted.
func (s *Snapshot) FactNames() []string {
	names := make([]string, 0, len(s.interfaces))
	for name := range s.interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of interface facts.
func (s *Snapshot) Len() int {
	return len(s.interfaces)
}
