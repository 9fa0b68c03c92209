package testutil

// Fixture returns the seed state of a Backend: a loopback and one ethernet
// link (index 3), one address on each, and a default route via eth0.
func Fixture() map[string][]map[string]interface{} {
	return map[string][]map[string]interface{}{
		"link": {
			{"family": 0, "index": 1, "linklayer": 772, "flags": 65609, "ifname": "lo", "mtu": 65536, "kind": nil},
			{"family": 0, "index": 3, "linklayer": 1, "flags": 69699, "ifname": "eth0", "mtu": 1500, "kind": nil},
		},
		"address": {
			{"family": 2, "plen": 8, "flags": 128, "scope": 254, "index": 1, "address": "127.0.0.1", "local": "127.0.0.1", "label": "lo", "broadcast": nil},
			{"family": 2, "plen": 24, "flags": 0, "scope": 0, "index": 3, "address": "192.168.1.10", "local": "192.168.1.10", "label": "eth0", "broadcast": "192.168.1.255"},
		},
		"route": {
			{"family": 2, "table": 254, "scope": 0, "proto": 3, "dst": []interface{}{"0.0.0.0", 0}, "src": nil, "gateway": "192.168.1.1", "dev": 3, "prefsrc": nil, "metric": 100},
			{"family": 2, "table": 254, "scope": 253, "proto": 2, "dst": []interface{}{"192.168.1.0", 24}, "src": nil, "gateway": nil, "dev": 3, "prefsrc": "192.168.1.10", "metric": 100},
		},
	}
}
