package models

import (
	"net/netip"
	"slices"
)

// Relationship tags how an announcement entered an AS. The numeric order is
// the preference order: lower values win route selection.
type Relationship uint8

const (
	RelOrigin Relationship = iota
	RelCustomer
	RelPeer
	RelProvider
)

// String returns the tag name for logging.
func (r Relationship) String() string {
	switch r {
	case RelOrigin:
		return "origin"
	case RelCustomer:
		return "customer"
	case RelPeer:
		return "peer"
	case RelProvider:
		return "provider"
	}
	return "unknown"
}

// Announcement is one route for one prefix as known by a single AS.
//
// ASPath runs from the most recent hop (index 0) back to the origin (last
// index). For an announcement stored in an AS's RIB, ASPath[0] is that AS
// itself; NextHopASN is the neighbor whose copy was selected.
type Announcement struct {
	Prefix       netip.Prefix
	ASPath       []uint32
	NextHopASN   uint32
	ReceivedFrom Relationship
	ROVInvalid   bool
}

// NewSeedAnnouncement builds the announcement installed at an origin AS
// before propagation: a single-hop path with the origin as its own next hop.
func NewSeedAnnouncement(prefix netip.Prefix, origin uint32, rovInvalid bool) Announcement {
	return Announcement{
		Prefix:       prefix,
		ASPath:       []uint32{origin},
		NextHopASN:   origin,
		ReceivedFrom: RelOrigin,
		ROVInvalid:   rovInvalid,
	}
}

// BetterThan reports whether a wins route selection against b:
// better relationship first, then shorter path, then lower next hop ASN.
// Announcements that differ in relationship, path length or next hop never
// tie; the path contents and the prefix are not compared.
func (a Announcement) BetterThan(b Announcement) bool {
	if a.ReceivedFrom != b.ReceivedFrom {
		return a.ReceivedFrom < b.ReceivedFrom
	}
	if len(a.ASPath) != len(b.ASPath) {
		return len(a.ASPath) < len(b.ASPath)
	}
	return a.NextHopASN < b.NextHopASN
}

// ContainsAS reports whether asn already appears in the path. Used for loop
// prevention before forwarding.
func (a Announcement) ContainsAS(asn uint32) bool {
	for _, hop := range a.ASPath {
		if hop == asn {
			return true
		}
	}
	return false
}

// CopyWithNewHop produces the copy an AS sends to a neighbor: same prefix,
// same ROV flag, the sender as next hop, and the given relationship from the
// receiver's point of view. The path is copied unchanged; the receiver
// prepends its own ASN when committing the route to its RIB.
func (a Announcement) CopyWithNewHop(sender uint32, rel Relationship) Announcement {
	return Announcement{
		Prefix:       a.Prefix,
		ASPath:       slices.Clone(a.ASPath),
		NextHopASN:   sender,
		ReceivedFrom: rel,
		ROVInvalid:   a.ROVInvalid,
	}
}
