package model

import "encoding/json"

// LinkKind is the closed set of interface kinds the backend reports.
type LinkKind string

const (
	KindDummy     LinkKind = "Dummy"
	KindIfb       LinkKind = "Ifb"
	KindBridge    LinkKind = "Bridge"
	KindTun       LinkKind = "Tun"
	KindVrf       LinkKind = "Vrf"
	KindWireguard LinkKind = "Wireguard"
	KindOther     LinkKind = "Other"
)

// UnmarshalJSON maps unrecognised kinds to KindOther.
func (k *LinkKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch kind := LinkKind(s); kind {
	case KindDummy, KindIfb, KindBridge, KindTun, KindVrf, KindWireguard, KindOther:
		*k = kind
	default:
		*k = KindOther
	}
	return nil
}

// Link is a network interface, as listed by GET /link. Addresses and routes
// refer to it by Index.
type Link struct {
	Family    uint8  `json:"family"`
	Index     uint32 `json:"index"`
	LinkLayer uint16 `json:"linklayer"`
	Flags     uint32 `json:"flags"`

	IfName *string   `json:"ifname"`
	MTU    *uint32   `json:"mtu"`
	Kind   *LinkKind `json:"kind"`

	raw json.RawMessage
}

func (l *Link) UnmarshalJSON(b []byte) error {
	type plain Link
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*l = Link(p)
	l.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (l Link) MarshalJSON() ([]byte, error) {
	if l.raw != nil {
		return l.raw, nil
	}
	type plain Link
	return json.Marshal(plain(l))
}

// Raw returns the JSON object this record was decoded from, or nil.
func (l Link) Raw() json.RawMessage {
	return l.raw
}

// FindLink returns the link with the given index.
func FindLink(links []Link, index uint32) (Link, bool) {
	for _, l := range links {
		if l.Index == index {
			return l, true
		}
	}
	return Link{}, false
}
