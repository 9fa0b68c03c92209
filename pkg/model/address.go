package model

import "encoding/json"

// Address is an IP address assigned to a link, as listed by GET /address.
type Address struct {
	Family Family `json:"family"`
	Plen   uint8  `json:"plen"`
	Flags  uint8  `json:"flags"`
	Scope  Scope  `json:"scope"`
	Index  uint32 `json:"index"` // owning link

	Address   *string `json:"address"`
	Local     *string `json:"local"`
	Label     *string `json:"label"`
	Broadcast *string `json:"broadcast"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the record and keeps the original bytes so the exact
// object can be sent back on delete.
func (a *Address) UnmarshalJSON(b []byte) error {
	type plain Address
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = Address(p)
	a.raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON returns the bytes received from the backend when available.
func (a Address) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}
	type plain Address
	return json.Marshal(plain(a))
}

// Raw returns the JSON object this record was decoded from, or nil.
func (a Address) Raw() json.RawMessage {
	return a.raw
}

// AddressRequest is the body of POST /address.
type AddressRequest struct {
	Family  Family  `json:"family"`
	Plen    uint8   `json:"plen"`
	Scope   Scope   `json:"scope"`
	Index   uint32  `json:"index"`
	Flags   uint8   `json:"flags"`
	Address string  `json:"address"`
	Label   *string `json:"label"`
}
