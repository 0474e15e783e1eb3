package asgraph

import (
	"log"

	"github.com/hervehildenbrand/bgp-sim/pkg/models"
)

// Propagate drives every seeded announcement across the topology in a single
// deterministic sweep: up to providers, across peers, then down to
// customers. Sends within a rank step never observe each other's results;
// receivers resolve their staged routes in a batch after the whole step has
// sent. Returns the total number of RIB entries after the sweep.
func (g *Graph) Propagate() int {
	log.Printf("Propagating announcements...")

	g.propagateUp()
	g.propagateAcross()
	g.propagateDown()

	total := g.RIBEntryCount()
	log.Printf("Propagation complete, %d RIB entries", total)
	return total
}

// exportableUpward is the valley-free filter for exports to providers and
// peers: only routes originated locally or learned from a customer may go up
// or across. Customer exports are always allowed and need no filter.
func exportableUpward(ann models.Announcement) bool {
	return ann.ReceivedFrom == models.RelOrigin || ann.ReceivedFrom == models.RelCustomer
}

// propagateUp walks the ranks from the customer frontier upward. After all
// ASes of rank r have sent, the rank r+1 ASes resolve their staging, so each
// AS sends to its own providers only once everything its customers could
// contribute has been committed.
func (g *Graph) propagateUp() {
	log.Printf("  phase 1: up (to providers)")

	for rank := 0; rank < len(g.ranked); rank++ {
		for _, asn := range g.ranked[rank] {
			n := g.nodes[asn]
			if n.Policy == nil || len(n.Providers) == 0 {
				continue
			}
			for _, ann := range n.Policy.LocalRIB() {
				if !exportableUpward(ann) {
					continue
				}
				for _, provider := range n.Providers {
					if provider.Policy == nil || ann.ContainsAS(provider.ASN) {
						continue
					}
					provider.Policy.Receive(ann.CopyWithNewHop(asn, models.RelCustomer))
				}
			}
		}

		if rank+1 < len(g.ranked) {
			for _, asn := range g.ranked[rank+1] {
				if n := g.nodes[asn]; n.Policy != nil {
					n.Policy.Process(asn)
					n.Policy.ClearStaging()
				}
			}
		}
	}
}

// propagateAcross sends to peers in one simultaneous step: every AS sends
// from its current RIB, and only then does anyone resolve staging. A
// peer-learned route therefore cannot be re-exported within the phase, so
// peers propagate exactly one hop.
func (g *Graph) propagateAcross() {
	log.Printf("  phase 2: across (to peers)")

	for asn, n := range g.nodes {
		if n.Policy == nil || len(n.Peers) == 0 {
			continue
		}
		for _, ann := range n.Policy.LocalRIB() {
			if !exportableUpward(ann) {
				continue
			}
			for _, peer := range n.Peers {
				if peer.Policy == nil || ann.ContainsAS(peer.ASN) {
					continue
				}
				peer.Policy.Receive(ann.CopyWithNewHop(asn, models.RelPeer))
			}
		}
	}

	for asn, n := range g.nodes {
		if n.Policy != nil {
			n.Policy.Process(asn)
			n.Policy.ClearStaging()
		}
	}
}

// propagateDown walks the ranks from the top downward. Customer export is
// always permitted, so no valley-free filter applies here.
func (g *Graph) propagateDown() {
	log.Printf("  phase 3: down (to customers)")

	for rank := len(g.ranked) - 1; rank >= 0; rank-- {
		for _, asn := range g.ranked[rank] {
			n := g.nodes[asn]
			if n.Policy == nil || len(n.Customers) == 0 {
				continue
			}
			for _, ann := range n.Policy.LocalRIB() {
				for _, customer := range n.Customers {
					if customer.Policy == nil || ann.ContainsAS(customer.ASN) {
						continue
					}
					customer.Policy.Receive(ann.CopyWithNewHop(asn, models.RelProvider))
				}
			}
		}

		if rank-1 >= 0 {
			for _, asn := range g.ranked[rank-1] {
				if n := g.nodes[asn]; n.Policy != nil {
					n.Policy.Process(asn)
					n.Policy.ClearStaging()
				}
			}
		}
	}
}
