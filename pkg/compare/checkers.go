package compare

import (
	"github.com/newtron-network/ifcheck/pkg/facts"
	"github.com/newtron-network/ifcheck/pkg/intent"
	"github.com/newtron-network/ifcheck/pkg/util"
)

// bondModes maps numeric bonding modes to the names reported in facts.
var bondModes = map[string]string{
	"1": "active-backup",
	"2": "balance-xor",
	"3": "broadcast",
	"4": "802.3ad",
	"5": "balance-tlb",
	"6": "balance-alb",
}

// BondModeName translates a numeric bonding mode to its name. Other values
// are returned unchanged.
func BondModeName(mode string) string {
	if name, ok := bondModes[mode]; ok {
		return name
	}
	return mode
}

// EtherCheck checks an Ethernet interface.
func EtherCheck(snap *facts.Snapshot, iface *intent.Interface) Verdict {
	return CheckInterface(snap, iface, facts.TypeEther)
}

// BridgeCheck checks a bridge and its ports. Ports need only exist and be
// active; their type is not constrained since a port may itself be a bond or
// another bridge.
func BridgeCheck(snap *facts.Snapshot, iface *intent.Interface) Verdict {
	result := CheckInterface(snap, iface, facts.TypeBridge)
	if result.Diff {
		return result
	}

	device := iface.Device
	fact, _ := snap.Interface(device)

	if missing := util.Difference(iface.Ports, fact.Interfaces); len(missing) > 0 {
		return Fail("Bridge interface %s has missing ports: %s", device, util.JoinNames(missing))
	}

	for _, port := range iface.Ports {
		if result := CheckInterface(snap, intent.Member(port), AnyType); result.Diff {
			return result
		}
	}

	return Pass()
}

// BondCheck checks a bond, its bonding parameters and its slaves. Slave
// membership must match exactly, and every slave must be an active Ethernet
// interface.
func BondCheck(snap *facts.Snapshot, iface *intent.Interface) Verdict {
	result := CheckInterface(snap, iface, facts.TypeBonding)
	if result.Diff {
		return result
	}

	device := iface.Device
	fact, _ := snap.Interface(device)

	if iface.BondMode != nil && BondModeName(iface.BondMode.String()) != fact.Mode.String() {
		return Fail("Bond interface %s has incorrect bond mode", device)
	}

	if iface.BondMiimon != nil && iface.BondMiimon.String() != fact.Miimon.String() {
		return Fail("Bond interface %s has incorrect miimon", device)
	}

	if missing := util.Difference(iface.BondSlaves, fact.Slaves); len(missing) > 0 {
		return Fail("Bond interface %s has missing slaves: %s", device, util.JoinNames(missing))
	}
	if additional := util.Difference(fact.Slaves, iface.BondSlaves); len(additional) > 0 {
		return Fail("Bond interface %s has additional slaves: %s", device, util.JoinNames(additional))
	}

	for _, slave := range iface.BondSlaves {
		if result := EtherCheck(snap, intent.Member(slave)); result.Diff {
			return result
		}
	}

	return Pass()
}
