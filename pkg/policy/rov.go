package policy

import "github.com/hervehildenbrand/bgp-sim/pkg/models"

// ROV applies route origin validation at reception: announcements flagged
// invalid are dropped before they reach the staging area, so a deploying AS
// neither installs nor re-exports them. Everything else is standard BGP.
type ROV struct {
	BGP
	dropped uint64
}

// NewROV creates an empty ROV policy.
func NewROV() *ROV {
	return &ROV{BGP: *NewBGP()}
}

func (p *ROV) Receive(ann models.Announcement) {
	if ann.ROVInvalid {
		p.dropped++
		return
	}
	p.BGP.Receive(ann)
}

// DroppedCount reports how many invalid announcements were rejected.
func (p *ROV) DroppedCount() uint64 {
	return p.dropped
}
