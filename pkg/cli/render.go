package cli

import (
	"io"
	"strconv"

	"github.com/newtron-network/netconsole/pkg/model"
	"github.com/newtron-network/netconsole/pkg/util"
)

// LinkNamer resolves a link index to its interface name.
type LinkNamer func(index uint32) (string, bool)

// Unknown is shown for values that cannot be resolved; Wildcard for a
// route endpoint that matches anything.
const (
	Unknown  = "?"
	Wildcard = "*"
	none     = "-"
)

// FormatFamily renders an address family code.
func FormatFamily(f model.Family) string {
	return f.String()
}

// FormatScope renders an address or route scope.
func FormatScope(s model.Scope) string {
	return s.String()
}

// FormatDevice renders a link reference as "name(index)".
func FormatDevice(index uint32, names LinkNamer) string {
	name := Unknown
	if names != nil {
		if n, ok := names(index); ok {
			name = n
		}
	}
	return name + "(" + strconv.FormatUint(uint64(index), 10) + ")"
}

// FormatPrefix renders an optional route endpoint.
func FormatPrefix(p *model.Prefix) string {
	if p == nil {
		return Wildcard
	}
	return p.String()
}

func orNone(s *string) string {
	if s == nil || *s == "" {
		return none
	}
	return *s
}

func uintOrNone[T ~uint8 | ~uint16 | ~uint32](v *T) string {
	if v == nil {
		return none
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func itoa[T ~uint8 | ~uint16 | ~uint32](v T) string {
	return strconv.FormatUint(uint64(v), 10)
}

// AddressTable writes addresses as a numbered table. Row numbers start at 1
// and are what "delete" commands accept.
func AddressTable(out io.Writer, addrs []model.Address, names LinkNamer) {
	t := NewTable(out, "#", "ADDRESS", "DEVICE", "LABEL", "LOCAL", "BROADCAST", "FAMILY", "FLAGS", "SCOPE")
	for i, a := range addrs {
		addr := Unknown
		if a.Address != nil {
			addr = *a.Address
		}
		t.Row(
			strconv.Itoa(i+1),
			util.FormatCIDR(addr, int(a.Plen)),
			FormatDevice(a.Index, names),
			orNone(a.Label),
			orNone(a.Local),
			orNone(a.Broadcast),
			FormatFamily(a.Family),
			itoa(a.Flags),
			FormatScope(a.Scope),
		)
	}
	t.Flush()
}

// LinkTable writes links as a numbered table.
func LinkTable(out io.Writer, links []model.Link) {
	t := NewTable(out, "#", "NAME", "INDEX", "KIND", "MTU", "FLAGS", "LINKLAYER")
	for i, l := range links {
		name := Unknown
		if l.IfName != nil {
			name = *l.IfName
		}
		kind := none
		if l.Kind != nil {
			kind = string(*l.Kind)
		}
		t.Row(
			strconv.Itoa(i+1),
			name,
			itoa(l.Index),
			kind,
			uintOrNone(l.MTU),
			itoa(l.Flags),
			itoa(l.LinkLayer),
		)
	}
	t.Flush()
}

// RouteTable writes routes as a numbered table.
func RouteTable(out io.Writer, routes []model.Route, names LinkNamer) {
	t := NewTable(out, "#", "SRC", "DST", "DEVICE", "GATEWAY", "METRIC", "PREFSRC", "FAMILY", "TABLE", "SCOPE", "PROTO")
	for i, r := range routes {
		dev := none
		if r.Dev != nil {
			dev = FormatDevice(*r.Dev, names)
		}
		t.Row(
			strconv.Itoa(i+1),
			FormatPrefix(r.Src),
			FormatPrefix(r.Dst),
			dev,
			orNone(r.Gateway),
			uintOrNone(r.Metric),
			orNone(r.PrefSrc),
			FormatFamily(r.Family),
			itoa(r.Table),
			FormatScope(r.Scope),
			itoa(r.Proto),
		)
	}
	t.Flush()
}
