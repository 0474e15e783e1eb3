// Package asgraph models the inter-domain topology of autonomous systems and
// drives BGP announcement propagation across it.
package asgraph

import (
	"fmt"
	"log"
	"slices"

	"github.com/hervehildenbrand/bgp-sim/pkg/models"
	"github.com/hervehildenbrand/bgp-sim/pkg/policy"
)

// EdgeRel is the relationship code between two ASes as used by CAIDA
// serial-2 data.
type EdgeRel int8

const (
	// EdgeCustomer means the first AS is the provider of the second.
	EdgeCustomer EdgeRel = -1
	// EdgePeer means the two ASes peer with each other.
	EdgePeer EdgeRel = 0
	// EdgeProvider means the first AS is the customer of the second.
	EdgeProvider EdgeRel = 1
)

// Node is one AS in the topology. Adjacency slices hold direct references to
// the neighbor nodes; they are multisets, so duplicate relationships in the
// input are admitted as-is.
type Node struct {
	ASN       uint32
	Providers []*Node
	Customers []*Node
	Peers     []*Node

	// PropagationRank orders the up/down sweeps: stubs with no customers
	// are rank 0 and every AS outranks all of its customers. -1 until
	// AssignRanks runs.
	PropagationRank int

	Policy policy.Policy
}

// Graph holds all AS nodes and their relationship adjacencies.
type Graph struct {
	nodes map[uint32]*Node

	providerCustomerEdges int
	peerEdges             int

	// ranked[r] lists the ASNs at propagation rank r, sorted.
	ranked [][]uint32

	// rovASNs records every ASN ever listed for ROV, present in the
	// topology or not.
	rovASNs map[uint32]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[uint32]*Node),
		rovASNs: make(map[uint32]struct{}),
	}
}

func (g *Graph) getOrCreate(asn uint32) *Node {
	if n, ok := g.nodes[asn]; ok {
		return n
	}
	n := &Node{ASN: asn, PropagationRank: -1}
	g.nodes[asn] = n
	return n
}

// AddRelationship records one business relationship between two ASes,
// creating nodes on first mention. Both directions of the adjacency are kept
// in sync.
func (g *Graph) AddRelationship(as1, as2 uint32, rel EdgeRel) {
	n1 := g.getOrCreate(as1)
	n2 := g.getOrCreate(as2)

	switch rel {
	case EdgeCustomer:
		n1.Customers = append(n1.Customers, n2)
		n2.Providers = append(n2.Providers, n1)
		g.providerCustomerEdges++
	case EdgeProvider:
		n1.Providers = append(n1.Providers, n2)
		n2.Customers = append(n2.Customers, n1)
		g.providerCustomerEdges++
	case EdgePeer:
		n1.Peers = append(n1.Peers, n2)
		n2.Peers = append(n2.Peers, n1)
		g.peerEdges++
	}
}

// Node returns the AS with the given ASN, or nil.
func (g *Graph) Node(asn uint32) *Node {
	return g.nodes[asn]
}

// HasNode reports whether the ASN exists in the topology.
func (g *Graph) HasNode(asn uint32) bool {
	_, ok := g.nodes[asn]
	return ok
}

// Nodes exposes the node table for iteration.
func (g *Graph) Nodes() map[uint32]*Node {
	return g.nodes
}

func (g *Graph) NodeCount() int             { return len(g.nodes) }
func (g *Graph) EdgeCount() int             { return g.providerCustomerEdges + g.peerEdges }
func (g *Graph) ProviderCustomerEdges() int { return g.providerCustomerEdges }
func (g *Graph) PeerEdges() int             { return g.peerEdges }

// ValidateAcyclic rejects topologies whose provider-customer edges contain a
// cycle. The DFS follows provider edges only; a node re-entered while still
// on the traversal stack is a cycle, including a self-loop.
func (g *Graph) ValidateAcyclic() error {
	visited := make(map[uint32]bool, len(g.nodes))
	onStack := make(map[uint32]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		visited[n.ASN] = true
		onStack[n.ASN] = true
		for _, p := range n.Providers {
			if onStack[p.ASN] {
				return fmt.Errorf("provider-customer cycle through AS%d and AS%d", n.ASN, p.ASN)
			}
			if !visited[p.ASN] {
				if err := visit(p); err != nil {
					return err
				}
			}
		}
		onStack[n.ASN] = false
		return nil
	}

	for _, n := range g.nodes {
		if !visited[n.ASN] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// InitPolicies installs a standard BGP policy on every node that has none.
func (g *Graph) InitPolicies() {
	for _, n := range g.nodes {
		if n.Policy == nil {
			n.Policy = policy.NewBGP()
		}
	}
}

// AssignRanks partitions the ASes into propagation ranks by Kahn-style
// topological layering: ASes with no customers are rank 0, and each
// provider's rank is one more than the highest rank among its customers.
// Call only after ValidateAcyclic has passed.
func (g *Graph) AssignRanks() {
	ranks := make(map[uint32]int, len(g.nodes))
	pending := make(map[uint32]int)

	queue := make([]uint32, 0, len(g.nodes))
	for asn, n := range g.nodes {
		if len(n.Customers) == 0 {
			ranks[asn] = 0
			queue = append(queue, asn)
		} else {
			pending[asn] = len(n.Customers)
		}
	}

	maxRank := 0
	for len(queue) > 0 {
		asn := queue[0]
		queue = queue[1:]
		rank := ranks[asn]

		for _, p := range g.nodes[asn].Providers {
			if _, ok := pending[p.ASN]; !ok {
				continue
			}
			if candidate := rank + 1; candidate > ranks[p.ASN] {
				ranks[p.ASN] = candidate
			}
			pending[p.ASN]--
			if pending[p.ASN] == 0 {
				delete(pending, p.ASN)
				queue = append(queue, p.ASN)
				if ranks[p.ASN] > maxRank {
					maxRank = ranks[p.ASN]
				}
			}
		}
	}

	g.ranked = make([][]uint32, maxRank+1)
	for asn, n := range g.nodes {
		r := ranks[asn]
		n.PropagationRank = r
		g.ranked[r] = append(g.ranked[r], asn)
	}
	for _, rank := range g.ranked {
		slices.Sort(rank)
	}

	log.Printf("Assigned propagation ranks, max rank %d", maxRank)
	for r, ases := range g.ranked {
		log.Printf("  rank %d: %d ASes", r, len(ases))
	}
}

// Ranks returns the rank layering built by AssignRanks.
func (g *Graph) Ranks() [][]uint32 {
	return g.ranked
}

// SeedAnnouncement installs a prefix announcement at its origin AS. The
// origin must exist in the topology and have a policy installed.
func (g *Graph) SeedAnnouncement(origin uint32, prefix string, rovInvalid bool) error {
	n := g.nodes[origin]
	if n == nil || n.Policy == nil {
		return fmt.Errorf("cannot seed at AS%d: not in topology", origin)
	}
	p, err := models.ParsePrefix(prefix)
	if err != nil {
		return err
	}
	n.Policy.Seed(models.NewSeedAnnouncement(p, origin, rovInvalid))
	return nil
}

// LoadROV replaces the policy of every listed AS with a fresh ROV policy,
// discarding any prior RIB state; ROV loading is expected before
// propagation. ASNs absent from the graph are remembered for statistics
// only. Returns the number of ASes upgraded.
func (g *Graph) LoadROV(asns []uint32) int {
	upgraded := 0
	for _, asn := range asns {
		g.rovASNs[asn] = struct{}{}
		if n := g.nodes[asn]; n != nil {
			n.Policy = policy.NewROV()
			upgraded++
		}
	}
	return upgraded
}

// ROVASNCount reports how many distinct ASNs were listed for ROV, whether or
// not they exist in the topology.
func (g *Graph) ROVASNCount() int {
	return len(g.rovASNs)
}

// ROVDropCount sums the invalid announcements dropped across all ROV
// policies.
func (g *Graph) ROVDropCount() uint64 {
	var total uint64
	for _, n := range g.nodes {
		if rov, ok := n.Policy.(*policy.ROV); ok {
			total += rov.DroppedCount()
		}
	}
	return total
}

// RIBEntryCount sums the local RIB sizes across all ASes.
func (g *Graph) RIBEntryCount() int {
	total := 0
	for _, n := range g.nodes {
		if n.Policy != nil {
			total += len(n.Policy.LocalRIB())
		}
	}
	return total
}
