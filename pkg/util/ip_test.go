package util

import "testing"

func TestIsDottedQuad(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"10.0.0.1", true},
		{"192.168.1.5", true},
		{"999.999.999.999", true}, // heuristic: octet range is not checked
		{"fe80::1", false},
		{"::ffff:10.0.0.1", false},
		{"10.0.0", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsDottedQuad(tt.in); got != tt.want {
				t.Errorf("IsDottedQuad(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitCIDR(t *testing.T) {
	tests := []struct {
		name        string
		cidr        string
		wantLiteral string
		wantLen     string
		wantHasLen  bool
	}{
		{"v4", "10.0.0.1/24", "10.0.0.1", "24", true},
		{"v6", "fe80::1/64", "fe80::1", "64", true},
		{"no mask", "10.0.0.1", "10.0.0.1", "", false},
		{"whitespace", " 0.0.0.0/0 ", "0.0.0.0", "0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, plen, ok := SplitCIDR(tt.cidr)
			if lit != tt.wantLiteral || plen != tt.wantLen || ok != tt.wantHasLen {
				t.Errorf("SplitCIDR(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.cidr, lit, plen, ok, tt.wantLiteral, tt.wantLen, tt.wantHasLen)
			}
		})
	}
}

func TestParsePrefixLen(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		max     int
		want    int
		wantErr bool
	}{
		{"v4 /24", "24", 32, 24, false},
		{"v4 /0", "0", 32, 0, false},
		{"v4 /32", "32", 32, 32, false},
		{"v4 /33", "33", 32, 0, true},
		{"v6 /128", "128", 128, 128, false},
		{"negative", "-1", 128, 0, true},
		{"not a number", "abc", 32, 0, true},
		{"empty", "", 32, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrefixLen(tt.in, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrefixLen(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePrefixLen(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatCIDR(t *testing.T) {
	if got := FormatCIDR("0.0.0.0", 0); got != "0.0.0.0/0" {
		t.Errorf("FormatCIDR() = %q", got)
	}
}
