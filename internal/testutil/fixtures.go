package testutil

// ComputeHost is the host name used by ComputeFacts.
const ComputeHost = "compute-01"

// ComputeFacts is setup-module output for a hypervisor with a plain NIC, a
// sub-interface alias, an LACP bond over two NICs, a bridge and one NIC that
// is down.
var ComputeFacts = []byte(`{
  "changed": false,
  "ansible_facts": {
    "ansible_hostname": "compute-01",
    "ansible_interfaces": ["lo", "eth0", "eth1", "eth2", "eth3", "eth4", "bond0", "br0", "p-eth5"],
    "ansible_default_ipv4": {
      "gateway": "10.0.0.1",
      "interface": "eth0",
      "address": "10.0.0.5"
    },
    "ansible_default_ipv6": {
      "gateway": "2001:db8::1",
      "interface": "eth0"
    },
    "ansible_eth0": {
      "device": "eth0",
      "active": true,
      "type": "ether",
      "macaddress": "52:54:00:12:34:56",
      "mtu": 1500,
      "ipv4": {"address": "10.0.0.5", "netmask": "255.255.255.0", "network": "10.0.0.0", "broadcast": "10.0.0.255"},
      "ipv4_secondaries": [
        {"address": "10.0.0.6", "netmask": "255.255.255.0"}
      ],
      "ipv6": [
        {"address": "fe80::5054:ff:fe12:3456", "prefix": "64", "scope": "link"},
        {"address": "2001:db8::5", "prefix": "64", "scope": "global"}
      ]
    },
    "ansible_eth0_1": {
      "device": "eth0:1",
      "ipv4": {"address": "10.0.0.6", "netmask": "255.255.255.0"}
    },
    "ansible_eth1": {
      "device": "eth1",
      "active": true,
      "type": "ether",
      "mtu": 9000
    },
    "ansible_eth2": {
      "device": "eth2",
      "active": true,
      "type": "ether",
      "mtu": 9000
    },
    "ansible_eth3": {
      "device": "eth3",
      "active": false,
      "type": "ether",
      "mtu": 1500
    },
    "ansible_eth4": {
      "device": "eth4",
      "active": true,
      "type": "ether",
      "mtu": 1500
    },
    "ansible_p_eth5": {
      "device": "p-eth5",
      "active": true,
      "type": "ether",
      "mtu": 1500
    },
    "ansible_bond0": {
      "device": "bond0",
      "active": true,
      "type": "bonding",
      "mtu": 9000,
      "mode": "802.3ad",
      "miimon": "100",
      "slaves": ["eth1", "eth2"],
      "ipv4": {"address": "10.1.0.5", "netmask": "255.255.255.0"}
    },
    "ansible_br0": {
      "device": "br0",
      "active": true,
      "type": "bridge",
      "mtu": 1500,
      "interfaces": ["eth4", "p-eth5"],
      "ipv4": {},
      "ipv4_secondaries": [
        {"address": "172.16.0.1", "netmask": "255.255.0.0"},
        {"address": "172.17.0.1", "netmask": "255.255.0.0"}
      ]
    },
    "ansible_lo": {
      "device": "lo",
      "active": true,
      "type": "loopback",
      "mtu": 65536,
      "ipv4": {"address": "127.0.0.1", "netmask": "255.0.0.0"}
    }
  }
}`)

// ComputeIntent is an intent file matching ComputeFacts.
var ComputeIntent = []byte(`ether_interfaces:
  - device: eth0
    bootproto: static
    address: 10.0.0.5
    netmask: 255.255.255.0
    gateway: 10.0.0.1
    mtu: 1500
    ip6:
      address: "2001:db8::5"
      prefix: 64
      gateway: "2001:db8::1"
  - device: eth0:1
    bootproto: static
    address: 10.0.0.6
    netmask: 255.255.255.0
bridge_interfaces:
  - device: br0
    bootproto: static
    address: 172.17.0.1
    netmask: 255.255.0.0
    ports:
      - eth4
      - p-eth5
bond_interfaces:
  - device: bond0
    bootproto: static
    address: 10.1.0.5
    netmask: 255.255.255.0
    mtu: 9000
    bond_mode: 4
    bond_miimon: 100
    bond_slaves:
      - eth1
      - eth2
`)
