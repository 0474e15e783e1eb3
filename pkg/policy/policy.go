// Package policy implements per-AS BGP route selection: a local RIB of best
// routes, a staging area for routes received during the current propagation
// step, and the ROV variant that filters invalid-origin announcements.
package policy

import (
	"net/netip"

	"github.com/hervehildenbrand/bgp-sim/pkg/models"
)

// Policy is the routing behaviour owned by a single AS.
type Policy interface {
	// Receive stages an incoming announcement for the current phase step.
	Receive(ann models.Announcement)
	// Process resolves staged candidates into the local RIB, prepending
	// selfASN to the stored path. Reports whether any RIB entry changed.
	Process(selfASN uint32) bool
	// ClearStaging discards staged announcements after a process step.
	ClearStaging()
	// Seed installs an announcement directly into the RIB. The seed's path
	// already contains the origin AS.
	Seed(ann models.Announcement)
	// Get returns the current best route for a prefix.
	Get(prefix netip.Prefix) (models.Announcement, bool)
	// LocalRIB exposes the best-route table, one entry per prefix.
	LocalRIB() map[netip.Prefix]models.Announcement
}

// BGP is the standard policy: best-route selection with no filtering.
type BGP struct {
	rib     map[netip.Prefix]models.Announcement
	staging map[netip.Prefix][]models.Announcement
}

// NewBGP creates an empty standard policy.
func NewBGP() *BGP {
	return &BGP{
		rib:     make(map[netip.Prefix]models.Announcement),
		staging: make(map[netip.Prefix][]models.Announcement),
	}
}

func (p *BGP) Receive(ann models.Announcement) {
	p.staging[ann.Prefix] = append(p.staging[ann.Prefix], ann)
}

// Process picks the best staged candidate per prefix, prepends selfASN to its
// path, and installs it when it beats the incumbent RIB entry (or when there
// is none).
func (p *BGP) Process(selfASN uint32) bool {
	changed := false
	for prefix, candidates := range p.staging {
		if len(candidates) == 0 {
			continue
		}

		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.BetterThan(best) {
				best = c
			}
		}

		stored := best
		stored.ASPath = append([]uint32{selfASN}, best.ASPath...)

		current, ok := p.rib[prefix]
		if !ok || stored.BetterThan(current) {
			p.rib[prefix] = stored
			changed = true
		}
	}
	return changed
}

func (p *BGP) ClearStaging() {
	clear(p.staging)
}

func (p *BGP) Seed(ann models.Announcement) {
	p.rib[ann.Prefix] = ann
}

func (p *BGP) Get(prefix netip.Prefix) (models.Announcement, bool) {
	ann, ok := p.rib[prefix]
	return ann, ok
}

func (p *BGP) LocalRIB() map[netip.Prefix]models.Announcement {
	return p.rib
}
