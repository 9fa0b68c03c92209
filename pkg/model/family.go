// Package model defines the records exchanged with the network backend:
// addresses, links and routes, plus the create payloads built from forms.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Family is an address family code as used by the kernel.
type Family uint8

const (
	FamilyIPv4 Family = 2  // AF_INET
	FamilyIPv6 Family = 10 // AF_INET6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "AF_INET"
	case FamilyIPv6:
		return "AF_INET6"
	}
	return fmt.Sprintf("Other(%d)", uint8(f))
}

// MaxPrefixLen returns the widest prefix length valid for the family.
func (f Family) MaxPrefixLen() int {
	if f == FamilyIPv4 {
		return 32
	}
	return 128
}

// Scope is the visibility of an address or route.
type Scope uint8

const (
	ScopeGlobal Scope = 0
	ScopeLink   Scope = 253
	ScopeHost   Scope = 254
)

// Scopes lists the scopes an operator may select, in menu order.
var Scopes = []Scope{ScopeGlobal, ScopeLink, ScopeHost}

func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "Global"
	case ScopeLink:
		return "Link"
	case ScopeHost:
		return "Host"
	}
	return fmt.Sprintf("Other(%d)", uint8(s))
}

// ParseScope accepts a selectable scope by name (case-insensitive) or by
// its numeric value.
func ParseScope(s string) (Scope, error) {
	s = strings.TrimSpace(s)
	for _, sc := range Scopes {
		if strings.EqualFold(s, sc.String()) || s == strconv.Itoa(int(sc)) {
			return sc, nil
		}
	}
	return 0, fmt.Errorf("unknown scope %q (valid: global, link, host)", s)
}

// Kernel constants used when building create payloads.
const (
	// AddrFlagPermanent marks an address as statically configured (IFA_F_PERMANENT).
	AddrFlagPermanent uint8 = 0x80

	// TableMain is the main routing table (RT_TABLE_MAIN).
	TableMain uint8 = 254

	// ProtoKernel is the route protocol stamped on routes created here (RTPROT_KERNEL).
	ProtoKernel uint8 = 2
)

// Ptr returns a pointer to v. Optional record fields are pointers so that an
// absent value encodes as JSON null.
func Ptr[T any](v T) *T {
	return &v
}
