package compare

import (
	"strings"

	"github.com/newtron-network/ifcheck/pkg/facts"
	"github.com/newtron-network/ifcheck/pkg/intent"
)

// AnyType disables the link type check in CheckInterface.
const AnyType = ""

// IsSubinterface reports whether device is an address alias such as "eth0:1".
// Aliases have no link state of their own.
func IsSubinterface(device string) bool {
	return strings.Contains(device, ":")
}

// CheckInterface compares the state common to every kind of interface:
// existence, active state, link type, static addressing and MTU. The first
// divergence found decides the verdict. expectedType is a fact type such as
// facts.TypeEther, or AnyType.
func CheckInterface(snap *facts.Snapshot, iface *intent.Interface, expectedType string) Verdict {
	device := iface.Device

	fact, ok := snap.Interface(device)
	if !ok {
		return Fail("Interface %s does not exist", device)
	}

	if !IsSubinterface(device) {
		if !fact.Active {
			return Fail("Interface %s is not active", device)
		}
		if expectedType != AnyType && fact.Type != expectedType {
			return Fail("Interface %s is of an unexpected type", device)
		}
	}

	if iface.Static() && iface.Address != nil {
		if v := checkIPv4(snap, iface, fact); v.Diff {
			return v
		}
	}

	if iface.Static() && iface.IP6 != nil {
		if v := checkIPv6(snap, iface, fact); v.Diff {
			return v
		}
	}

	if iface.MTU != nil {
		if fact.MTU == nil || *fact.MTU != *iface.MTU {
			return Fail("Interface %s has incorrect MTU", device)
		}
	}

	return Pass()
}

// effectiveIPv4 returns the observed address entry that a request for
// address is compared with: the primary address when there is one, otherwise
// the secondary carrying the requested address.
func effectiveIPv4(fact *facts.InterfaceFact, address string) (facts.IPv4Address, bool) {
	if primary, ok := fact.PrimaryIPv4(); ok {
		return primary, true
	}
	for _, secondary := range fact.IPv4Secondaries {
		if secondary.Address == address {
			return secondary, true
		}
	}
	return facts.IPv4Address{}, false
}

func checkIPv4(snap *facts.Snapshot, iface *intent.Interface, fact *facts.InterfaceFact) Verdict {
	device := iface.Device
	address := *iface.Address

	if address == intent.NoIPv4Address {
		if _, ok := fact.PrimaryIPv4(); ok {
			return Fail("Interface %s has an IPv4 address but none was requested", device)
		}
		return Pass()
	}

	observed, ok := effectiveIPv4(fact, address)
	if !ok {
		return Fail("Interface %s has no IPv4 address", device)
	}
	if observed.Address != address {
		return Fail("Interface %s has incorrect IPv4 address", device)
	}

	if iface.Netmask != nil && observed.Netmask != *iface.Netmask {
		return Fail("Interface %s has incorrect IPv4 netmask", device)
	}

	if iface.Gateway != nil {
		gateway, ok := snap.DefaultIPv4Gateway()
		if !ok {
			return Fail("Default IPv4 gateway is missing")
		}
		if gateway != *iface.Gateway {
			return Fail("Default IPv4 gateway is incorrect")
		}
	}

	return Pass()
}

func checkIPv6(snap *facts.Snapshot, iface *intent.Interface, fact *facts.InterfaceFact) Verdict {
	device := iface.Device
	want := iface.IP6

	if len(fact.IPv6) == 0 {
		return Fail("Interface %s has no IPv6 address", device)
	}

	found := false
	for _, addr := range fact.IPv6 {
		if addr.Address == want.Address && addr.Prefix.String() == want.Prefix.String() {
			found = true
			break
		}
	}
	if !found {
		return Fail("Interface %s has incorrect IPv6 address", device)
	}

	if want.Gateway != nil {
		gateway, ok := snap.DefaultIPv6Gateway()
		if !ok {
			return Fail("Default IPv6 gateway is missing")
		}
		if gateway != *want.Gateway {
			return Fail("Default IPv6 gateway is incorrect")
		}
	}

	return Pass()
}
