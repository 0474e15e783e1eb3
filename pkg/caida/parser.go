// Package caida loads CAIDA serial-2 AS relationship data, from disk or from
// the public archive.
package caida

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hervehildenbrand/bgp-sim/pkg/asgraph"
)

// ParseRelationships reads serial-2 records ("AS1|AS2|rel|source") into the
// graph. Blank lines and '#' comments are skipped, as are records whose rel
// code is not -1, 0 or 1. Fields beyond the third are ignored. Returns the
// number of relationships parsed.
func ParseRelationships(r io.Reader, g *asgraph.Graph) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 128), 1024*1024)

	lines := 0
	parsed := 0
	for scanner.Scan() {
		lines++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < 3 {
			continue
		}
		as1, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			continue
		}
		as2, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			continue
		}
		rel, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			continue
		}

		var edge asgraph.EdgeRel
		switch rel {
		case -1:
			edge = asgraph.EdgeCustomer
		case 0:
			edge = asgraph.EdgePeer
		case 1:
			edge = asgraph.EdgeProvider
		default:
			continue
		}

		g.AddRelationship(uint32(as1), uint32(as2), edge)
		parsed++
		if parsed%100000 == 0 {
			log.Printf("  parsed %d relationships...", parsed)
		}
	}
	if err := scanner.Err(); err != nil {
		return parsed, fmt.Errorf("read relationships: %w", err)
	}

	log.Printf("Parsed %d relationships from %d lines: %d ASes, %d provider-customer edges, %d peer edges",
		parsed, lines, g.NodeCount(), g.ProviderCustomerEdges(), g.PeerEdges())
	return parsed, nil
}

// LoadRelationships parses a serial-2 file from disk into the graph.
func LoadRelationships(path string, g *asgraph.Graph) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open relationships file: %w", err)
	}
	defer f.Close()
	return ParseRelationships(f, g)
}
