package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// dottedQuad is the IPv4 recogniser used for family inference. It is a
// syntax heuristic, not a validator: octet ranges are not checked.
var dottedQuad = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)

// IsDottedQuad reports whether s looks like an IPv4 literal.
func IsDottedQuad(s string) bool {
	return dottedQuad.MatchString(s)
}

// SplitCIDR splits "<literal>/<prefix-length>" into its parts. The prefix
// length is returned as text; hasLen is false when there is no '/'.
func SplitCIDR(cidr string) (literal, plen string, hasLen bool) {
	literal, plen, hasLen = strings.Cut(strings.TrimSpace(cidr), "/")
	return literal, plen, hasLen
}

// ParsePrefixLen parses a prefix length and checks it against the maximum
// for the address family (32 for IPv4, 128 for IPv6).
func ParsePrefixLen(s string, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("prefix length %q is not a number", s)
	}
	if n < 0 || n > max {
		return 0, fmt.Errorf("prefix length must be between 0 and %d, got %d", max, n)
	}
	return n, nil
}

// FormatCIDR renders an address and prefix length as "<addr>/<plen>".
func FormatCIDR(addr string, plen int) string {
	return addr + "/" + strconv.Itoa(plen)
}
