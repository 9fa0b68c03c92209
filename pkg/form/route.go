package form

import (
	"github.com/newtron-network/netconsole/pkg/model"
	"github.com/newtron-network/netconsole/pkg/util"
)

// RouteForm holds the raw values of the create-route dialog. Every field
// is optional.
type RouteForm struct {
	Src     string // "<literal>/<prefix-length>"
	Dst     string // "<literal>/<prefix-length>"
	Gateway string
	Device  string // link index
	Table   string // empty means the main table
	Metric  string
	Scope   string // name or number; empty means global
}

// Route validates f and builds the POST /route payload.
//
// The family comes from src and dst; when both are given they must agree.
// With neither, it is inferred from the gateway, falling back to IPv4.
func Route(f RouteForm) (model.RouteRequest, error) {
	b := &util.ValidationBuilder{}
	req := model.RouteRequest{
		Family: model.FamilyIPv4,
		Table:  model.TableMain,
		Proto:  model.ProtoKernel,
	}

	var src, dst *cidr
	if optionalString(f.Src) != nil {
		if c, ok := parseCIDR(b, FieldSrc, f.Src); ok {
			src = &c
		}
	}
	if optionalString(f.Dst) != nil {
		if c, ok := parseCIDR(b, FieldDst, f.Dst); ok {
			dst = &c
		}
	}
	req.Gateway = optionalString(f.Gateway)

	switch {
	case src != nil && dst != nil:
		if src.family != dst.family {
			b.AddFieldf(FieldDst, "family %s does not match src family %s", dst.family, src.family)
		}
		req.Family = dst.family
	case src != nil:
		req.Family = src.family
	case dst != nil:
		req.Family = dst.family
	case req.Gateway != nil:
		req.Family = InferFamily(*req.Gateway)
	}
	if src != nil {
		req.Src = &model.Prefix{Addr: src.addr, Len: src.plen}
	}
	if dst != nil {
		req.Dst = &model.Prefix{Addr: dst.addr, Len: dst.plen}
	}

	if n, ok := parseUint(b, FieldDevice, f.Device, 32); ok {
		req.Dev = model.Ptr(uint32(n))
	}
	if n, ok := parseUint(b, FieldTable, f.Table, 8); ok {
		req.Table = uint8(n)
	}
	if n, ok := parseUint(b, FieldMetric, f.Metric, 32); ok {
		req.Metric = model.Ptr(uint32(n))
	}
	req.Scope = parseScope(b, f.Scope)

	if err := b.Build(); err != nil {
		return model.RouteRequest{}, err
	}
	return req, nil
}
