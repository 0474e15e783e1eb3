// Package models defines the value types shared across the simulator:
// prefixes, relationships, announcements and seeds.
package models

import (
	"fmt"
	"net/netip"
)

// ParsePrefix parses a textual CIDR prefix, accepting both IPv4 and IPv6.
// Host bits beyond the prefix length are preserved, so two prefixes with the
// same length but different host bits compare as distinct. Invalid input
// returns the zero Prefix and an error.
func ParsePrefix(s string) (netip.Prefix, error) {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("parse prefix %q: %w", s, err)
	}
	return p, nil
}
