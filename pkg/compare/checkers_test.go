package compare

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/newtron-network/ifcheck/internal/testutil"
	"github.com/newtron-network/ifcheck/pkg/facts"
	"github.com/newtron-network/ifcheck/pkg/intent"
)

func TestBondModeName(t *testing.T) {
	tests := map[string]string{
		"1":             "active-backup",
		"2":             "balance-xor",
		"3":             "broadcast",
		"4":             "802.3ad",
		"5":             "balance-tlb",
		"6":             "balance-alb",
		"0":             "0",
		"7":             "7",
		"active-backup": "active-backup",
	}
	for in, want := range tests {
		if got := BondModeName(in); got != want {
			t.Errorf("BondModeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEtherCheck(t *testing.T) {
	snap := facts.NewSnapshot().
		SetInterface("eth0", etherFact("eth0")).
		SetInterface("br0", &facts.InterfaceFact{Active: true, Type: facts.TypeBridge})

	if got := EtherCheck(snap, intent.Member("eth0")); got.Diff {
		t.Errorf("EtherCheck(eth0) = %v", got)
	}
	want := Fail("Interface br0 is of an unexpected type")
	if diff := cmp.Diff(want, EtherCheck(snap, intent.Member("br0"))); diff != "" {
		t.Errorf("EtherCheck(br0) mismatch (-want +got):\n%s", diff)
	}
}

func bridgeSnapshot() *facts.Snapshot {
	return facts.NewSnapshot().
		SetInterface("br0", &facts.InterfaceFact{
			Active: true, Type: facts.TypeBridge, Interfaces: []string{"eth0", "bond0"},
		}).
		SetInterface("eth0", etherFact("eth0")).
		SetInterface("bond0", &facts.InterfaceFact{Active: true, Type: facts.TypeBonding})
}

func TestBridgeCheck(t *testing.T) {
	tests := []struct {
		name  string
		snap  *facts.Snapshot
		iface *intent.Interface
		want  Verdict
	}{
		{
			name:  "ports present and active",
			snap:  bridgeSnapshot(),
			iface: &intent.Interface{Device: "br0", Ports: []string{"eth0", "bond0"}},
			want:  Pass(),
		},
		{
			name:  "no ports requested",
			snap:  bridgeSnapshot(),
			iface: intent.Member("br0"),
			want:  Pass(),
		},
		{
			name:  "extra observed ports are allowed",
			snap:  bridgeSnapshot(),
			iface: &intent.Interface{Device: "br0", Ports: []string{"eth0"}},
			want:  Pass(),
		},
		{
			name:  "bridge missing",
			snap:  facts.NewSnapshot(),
			iface: &intent.Interface{Device: "br0", Ports: []string{"eth0"}},
			want:  Fail("Interface br0 does not exist"),
		},
		{
			name:  "wrong type",
			snap:  facts.NewSnapshot().SetInterface("br0", etherFact("br0")),
			iface: intent.Member("br0"),
			want:  Fail("Interface br0 is of an unexpected type"),
		},
		{
			name:  "missing ports listed sorted",
			snap:  bridgeSnapshot(),
			iface: &intent.Interface{Device: "br0", Ports: []string{"eth9", "eth0", "eth1"}},
			want:  Fail("Bridge interface br0 has missing ports: eth1, eth9"),
		},
		{
			name: "port fact missing",
			snap: facts.NewSnapshot().SetInterface("br0", &facts.InterfaceFact{
				Active: true, Type: facts.TypeBridge, Interfaces: []string{"eth0", "eth1"},
			}).SetInterface("eth0", etherFact("eth0")),
			iface: &intent.Interface{Device: "br0", Ports: []string{"eth0", "eth1"}},
			want:  Fail("Interface eth1 does not exist"),
		},
		{
			name: "first failing port wins",
			snap: facts.NewSnapshot().SetInterface("br0", &facts.InterfaceFact{
				Active: true, Type: facts.TypeBridge, Interfaces: []string{"eth0", "eth1", "eth2"},
			}).
				SetInterface("eth0", etherFact("eth0")).
				SetInterface("eth1", &facts.InterfaceFact{Type: facts.TypeEther}).
				SetInterface("eth2", &facts.InterfaceFact{Type: facts.TypeEther}),
			iface: &intent.Interface{Device: "br0", Ports: []string{"eth0", "eth2", "eth1"}},
			want:  Fail("Interface eth2 is not active"),
		},
		{
			name: "bridge addressing checked before ports",
			snap: bridgeSnapshot(),
			iface: &intent.Interface{
				Device: "br0", Bootproto: "static", Address: strp("192.168.0.1"), Ports: []string{"eth9"},
			},
			want: Fail("Interface br0 has no IPv4 address"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BridgeCheck(tt.snap, tt.iface)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BridgeCheck() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBridgePortPropagatesVerdict(t *testing.T) {
	snap := bridgeSnapshot()
	port, _ := snap.Interface("eth0")
	port.Active = false

	sub := CheckInterface(snap, intent.Member("eth0"), AnyType)
	got := BridgeCheck(snap, &intent.Interface{Device: "br0", Ports: []string{"eth0"}})
	if diff := cmp.Diff(sub, got); diff != "" {
		t.Errorf("bridge verdict should equal port verdict (-port +bridge):\n%s", diff)
	}
}

func bondSnapshot(slaves ...string) *facts.Snapshot {
	snap := facts.NewSnapshot().SetInterface("bond0", &facts.InterfaceFact{
		Active: true, Type: facts.TypeBonding, Mode: "802.3ad", Miimon: "100", Slaves: slaves,
	})
	for _, s := range []string{"eth0", "eth1", "eth2"} {
		snap.SetInterface(s, etherFact(s))
	}
	return snap
}

func TestBondCheck(t *testing.T) {
	bond := func(mode, miimon *string, slaves ...string) *intent.Interface {
		iface := &intent.Interface{Device: "bond0", BondSlaves: slaves}
		if mode != nil {
			iface.BondMode = scalarp(*mode)
		}
		if miimon != nil {
			iface.BondMiimon = scalarp(*miimon)
		}
		return iface
	}

	tests := []struct {
		name  string
		snap  *facts.Snapshot
		iface *intent.Interface
		want  Verdict
	}{
		{
			name:  "numeric mode translated",
			snap:  bondSnapshot("eth0", "eth1"),
			iface: bond(strp("4"), nil, "eth0", "eth1"),
			want:  Pass(),
		},
		{
			name:  "named mode",
			snap:  bondSnapshot("eth0", "eth1"),
			iface: bond(strp("802.3ad"), nil, "eth0", "eth1"),
			want:  Pass(),
		},
		{
			name:  "mode differs",
			snap:  bondSnapshot("eth0", "eth1"),
			iface: bond(strp("2"), nil, "eth0", "eth1"),
			want:  Fail("Bond interface bond0 has incorrect bond mode"),
		},
		{
			name:  "unknown mode passed through",
			snap:  bondSnapshot("eth0", "eth1"),
			iface: bond(strp("0"), nil, "eth0", "eth1"),
			want:  Fail("Bond interface bond0 has incorrect bond mode"),
		},
		{
			name:  "miimon matches",
			snap:  bondSnapshot("eth0", "eth1"),
			iface: bond(nil, strp("100"), "eth0", "eth1"),
			want:  Pass(),
		},
		{
			name:  "miimon differs",
			snap:  bondSnapshot("eth0", "eth1"),
			iface: bond(nil, strp("200"), "eth0", "eth1"),
			want:  Fail("Bond interface bond0 has incorrect miimon"),
		},
		{
			name:  "missing slaves",
			snap:  bondSnapshot("eth0"),
			iface: bond(nil, nil, "eth0", "eth1"),
			want:  Fail("Bond interface bond0 has missing slaves: eth1"),
		},
		{
			name:  "additional slaves",
			snap:  bondSnapshot("eth0", "eth1", "eth2"),
			iface: bond(nil, nil, "eth0", "eth1"),
			want:  Fail("Bond interface bond0 has additional slaves: eth2"),
		},
		{
			name:  "missing reported before additional",
			snap:  bondSnapshot("eth0", "eth2"),
			iface: bond(nil, nil, "eth0", "eth1"),
			want:  Fail("Bond interface bond0 has missing slaves: eth1"),
		},
		{
			name:  "slaves required to be empty when none requested",
			snap:  bondSnapshot("eth0"),
			iface: bond(nil, nil),
			want:  Fail("Bond interface bond0 has additional slaves: eth0"),
		},
		{
			name:  "duplicate slaves collapse",
			snap:  bondSnapshot("eth0", "eth1"),
			iface: bond(nil, nil, "eth0", "eth1", "eth0"),
			want:  Pass(),
		},
		{
			name:  "mode checked before slaves",
			snap:  bondSnapshot("eth0"),
			iface: bond(strp("1"), nil, "eth0", "eth1"),
			want:  Fail("Bond interface bond0 has incorrect bond mode"),
		},
		{
			name:  "bond must be bonding type",
			snap:  facts.NewSnapshot().SetInterface("bond0", etherFact("bond0")),
			iface: bond(nil, nil),
			want:  Fail("Interface bond0 is of an unexpected type"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BondCheck(tt.snap, tt.iface)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BondCheck() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBondSlavesMustBeEthernet(t *testing.T) {
	snap := bondSnapshot("eth0", "bond1")
	snap.SetInterface("bond1", &facts.InterfaceFact{Active: true, Type: facts.TypeBonding})

	iface := &intent.Interface{Device: "bond0", BondSlaves: []string{"eth0", "bond1"}}
	sub := EtherCheck(snap, intent.Member("bond1"))
	got := BondCheck(snap, iface)

	if !got.Diff {
		t.Fatal("expected a diff for a non-Ethernet slave")
	}
	if diff := cmp.Diff(sub, got); diff != "" {
		t.Errorf("bond verdict should equal slave verdict (-slave +bond):\n%s", diff)
	}
	if got.Reason != "Interface bond1 is of an unexpected type" {
		t.Errorf("reason = %q", got.Reason)
	}
}

func TestComputeFixture(t *testing.T) {
	snap, err := facts.Decode(testutil.ComputeFacts)
	if err != nil {
		t.Fatalf("decoding facts: %v", err)
	}
	file, err := intent.Parse(testutil.ComputeIntent)
	if err != nil {
		t.Fatalf("parsing intent: %v", err)
	}

	check := map[intent.Kind]func(*facts.Snapshot, *intent.Interface) Verdict{
		intent.KindEther:  EtherCheck,
		intent.KindBridge: BridgeCheck,
		intent.KindBond:   BondCheck,
	}
	for _, e := range file.Entries() {
		iface := e.Interface
		if got := check[e.Kind](snap, &iface); got.Diff {
			t.Errorf("%s %s: unexpected %v", e.Kind, iface.Device, got)
		}
	}

	// eth3 is down in the fixture
	if got := EtherCheck(snap, intent.Member("eth3")); got.Reason != "Interface eth3 is not active" {
		t.Errorf("eth3: %v", got)
	}
	// p-eth5 is found through its underscored fact name
	if got := EtherCheck(snap, intent.Member("p-eth5")); got.Diff {
		t.Errorf("p-eth5: %v", got)
	}
}
