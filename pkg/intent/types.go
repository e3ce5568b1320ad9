// Package intent describes the desired configuration of network interfaces
// and loads it from YAML intent files.
package intent

import (
	"fmt"

	"github.com/cnf/structhash"

	"github.com/newtron-network/ifcheck/pkg/util"
)

// Kind selects which checker applies to an interface.
type Kind string

const (
	KindEther  Kind = "ether"
	KindBridge Kind = "bridge"
	KindBond   Kind = "bond"
)

// Kinds lists the interface kinds in evaluation order.
var Kinds = []Kind{KindEther, KindBridge, KindBond}

// BootprotoStatic marks an interface whose addresses are configured statically.
const BootprotoStatic = "static"

// NoIPv4Address requests that a static interface carries no IPv4 address.
const NoIPv4Address = "0.0.0.0"

// Interface is the desired state of one interface. Optional fields are
// pointers; a nil field places no constraint on the observed state.
type Interface struct {
	Device    string  `yaml:"device" json:"device" validate:"required"`
	Bootproto string  `yaml:"bootproto,omitempty" json:"bootproto,omitempty"`
	Address   *string `yaml:"address,omitempty" json:"address,omitempty" validate:"omitempty,ipv4"`
	Netmask   *string `yaml:"netmask,omitempty" json:"netmask,omitempty" validate:"omitempty,ipv4"`
	Gateway   *string `yaml:"gateway,omitempty" json:"gateway,omitempty" validate:"omitempty,ipv4"`
	IP6       *IPv6   `yaml:"ip6,omitempty" json:"ip6,omitempty"`
	MTU       *int    `yaml:"mtu,omitempty" json:"mtu,omitempty" validate:"omitempty,gt=0"`

	// Bridge
	Ports []string `yaml:"ports,omitempty" json:"ports,omitempty" validate:"dive,required"`

	// Bond
	BondMode   *util.Scalar `yaml:"bond_mode,omitempty" json:"bond_mode,omitempty" validate:"omitempty,min=1"`
	BondMiimon *util.Scalar `yaml:"bond_miimon,omitempty" json:"bond_miimon,omitempty" validate:"omitempty,numeric"`
	BondSlaves []string     `yaml:"bond_slaves,omitempty" json:"bond_slaves,omitempty" validate:"dive,required"`
}

// IPv6 is the desired static IPv6 configuration.
type IPv6 struct {
	Address string      `yaml:"address" json:"address" validate:"required,ipv6"`
	Prefix  util.Scalar `yaml:"prefix" json:"prefix" validate:"required,numeric"`
	Gateway *string     `yaml:"gateway,omitempty" json:"gateway,omitempty" validate:"omitempty,ipv6"`
}

// Static reports whether addresses are configured statically.
func (i *Interface) Static() bool {
	return i.Bootproto == BootprotoStatic
}

// Hash returns a stable fingerprint of the desired state.
func (i Interface) Hash() string {
	return fmt.Sprintf("%x", structhash.Sha1(i, 1))
}

// Member returns the bare desired state used for bridge ports and bond slaves.
func Member(device string) *Interface {
	return &Interface{Device: device}
}

// Entry is one interface of an intent file together with its kind.
type Entry struct {
	Kind      Kind
	Interface Interface
}

// File is a parsed intent file.
type File struct {
	Ether  []Interface `yaml:"ether_interfaces,omitempty" json:"ether_interfaces,omitempty"`
	Bridge []Interface `yaml:"bridge_interfaces,omitempty" json:"bridge_interfaces,omitempty"`
	Bond   []Interface `yaml:"bond_interfaces,omitempty" json:"bond_interfaces,omitempty"`
}

// Entries returns every interface in evaluation order: Ethernet, then
// bridges, then bonds, each in file order.
func (f *File) Entries() []Entry {
	entries := make([]Entry, 0, len(f.Ether)+len(f.Bridge)+len(f.Bond))
	for _, kind := range Kinds {
		for _, iface := range f.list(kind) {
			entries = append(entries, Entry{Kind: kind, Interface: iface})
		}
	}
	return entries
}

// Len returns the number of interfaces.
func (f *File) Len() int {
	return len(f.Ether) + len(f.Bridge) + len(f.Bond)
}

func (f *File) list(kind Kind) []Interface {
	switch kind {
	case KindEther:
		return f.Ether
	case KindBridge:
		return f.Bridge
	case KindBond:
		return f.Bond
	}
	return nil
}
