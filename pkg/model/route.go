package model

import (
	"encoding/json"
	"fmt"

	"github.com/newtron-network/netconsole/pkg/util"
)

// Prefix is a route endpoint. On the wire it is the pair [address, length].
type Prefix struct {
	Addr string
	Len  uint8
}

func (p Prefix) String() string {
	return util.FormatCIDR(p.Addr, int(p.Len))
}

func (p Prefix) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.Addr, p.Len})
}

func (p *Prefix) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("prefix: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("prefix: want [address, length], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &p.Addr); err != nil {
		return fmt.Errorf("prefix address: %w", err)
	}
	if err := json.Unmarshal(pair[1], &p.Len); err != nil {
		return fmt.Errorf("prefix length: %w", err)
	}
	return nil
}

// Route is a routing table entry, as listed by GET /route. Any of the
// endpoint fields may be absent; absent means wildcard.
type Route struct {
	Family Family `json:"family"`
	Table  uint8  `json:"table"`
	Scope  Scope  `json:"scope"`
	Proto  uint8  `json:"proto"`

	Dst     *Prefix `json:"dst"`
	Src     *Prefix `json:"src"`
	Gateway *string `json:"gateway"`
	Dev     *uint32 `json:"dev"`
	PrefSrc *string `json:"prefsrc"`
	Metric  *uint32 `json:"metric"`

	raw json.RawMessage
}

func (r *Route) UnmarshalJSON(b []byte) error {
	type plain Route
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Route(p)
	r.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (r Route) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	type plain Route
	return json.Marshal(plain(r))
}

// Raw returns the JSON object this record was decoded from, or nil.
func (r Route) Raw() json.RawMessage {
	return r.raw
}

// RouteRequest is the body of POST /route.
type RouteRequest struct {
	Family  Family  `json:"family"`
	Table   uint8   `json:"table"`
	Scope   Scope   `json:"scope"`
	Proto   uint8   `json:"proto"`
	Dst     *Prefix `json:"dst"`
	Src     *Prefix `json:"src"`
	Gateway *string `json:"gateway"`
	Dev     *uint32 `json:"dev"`
	Metric  *uint32 `json:"metric"`
}
