// Package form turns raw operator input into backend request payloads.
//
// Each form is plain data owned by the caller (a dialog or a set of CLI
// flags). Translation validates every field before building the payload and
// reports failures as a *util.ValidationError keyed by field name.
package form

import (
	"strconv"
	"strings"

	"github.com/newtron-network/netconsole/pkg/model"
	"github.com/newtron-network/netconsole/pkg/util"
)

// Field names used in validation errors.
const (
	FieldAddress = "address"
	FieldLabel   = "label"
	FieldDevice  = "dev"
	FieldScope   = "scope"
	FieldSrc     = "src"
	FieldDst     = "dst"
	FieldGateway = "gateway"
	FieldTable   = "table"
	FieldMetric  = "metric"
)

// InferFamily guesses the address family of a literal: a dotted quad is
// IPv4, anything else is IPv6. Malformed IPv6 literals are not rejected.
func InferFamily(literal string) model.Family {
	if util.IsDottedQuad(literal) {
		return model.FamilyIPv4
	}
	return model.FamilyIPv6
}

type cidr struct {
	addr   string
	family model.Family
	plen   uint8
}

// parseCIDR parses "<literal>/<plen>" for field. Problems are recorded on b
// and ok is false.
func parseCIDR(b *util.ValidationBuilder, field, value string) (c cidr, ok bool) {
	literal, plen, hasLen := util.SplitCIDR(value)
	literal = strings.TrimSpace(literal)
	if literal == "" {
		b.AddFieldf(field, "address is required")
		return c, false
	}
	if !hasLen {
		b.AddFieldf(field, "%q has no prefix length, expected <address>/<length>", value)
		return c, false
	}
	family := InferFamily(literal)
	n, err := util.ParsePrefixLen(plen, family.MaxPrefixLen())
	if err != nil {
		b.AddFieldf(field, "%v", err)
		return c, false
	}
	return cidr{addr: literal, family: family, plen: uint8(n)}, true
}

func parseScope(b *util.ValidationBuilder, value string) model.Scope {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.ScopeGlobal
	}
	s, err := model.ParseScope(value)
	if err != nil {
		b.AddFieldf(FieldScope, "%v", err)
	}
	return s
}

// optionalString maps an empty control value to absent.
func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// parseUint parses an unsigned field of the given bit size. Empty input
// yields absent.
func parseUint(b *util.ValidationBuilder, field, value string, bits int) (uint64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(value, 10, bits)
	if err != nil {
		b.AddFieldf(field, "%q is not a number between 0 and %d", value, uint64(1)<<bits-1)
		return 0, false
	}
	return n, true
}
