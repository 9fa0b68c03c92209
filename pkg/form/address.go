package form

import (
	"strings"

	"github.com/newtron-network/netconsole/pkg/model"
	"github.com/newtron-network/netconsole/pkg/util"
)

// AddressForm holds the raw values of the create-address dialog.
type AddressForm struct {
	Address string // "<literal>/<prefix-length>"
	Label   string
	Device  string // link index
	Scope   string // name or number; empty means global
}

// Address validates f and builds the POST /address payload. New addresses
// are always permanent.
func Address(f AddressForm) (model.AddressRequest, error) {
	b := &util.ValidationBuilder{}

	c, _ := parseCIDR(b, FieldAddress, f.Address)
	scope := parseScope(b, f.Scope)

	var index uint64
	if strings.TrimSpace(f.Device) == "" {
		b.AddFieldf(FieldDevice, "device is required")
	} else {
		index, _ = parseUint(b, FieldDevice, f.Device, 32)
	}

	if err := b.Build(); err != nil {
		return model.AddressRequest{}, err
	}
	return model.AddressRequest{
		Family:  c.family,
		Plen:    c.plen,
		Scope:   scope,
		Index:   uint32(index),
		Flags:   model.AddrFlagPermanent,
		Address: c.addr,
		Label:   optionalString(f.Label),
	}, nil
}
