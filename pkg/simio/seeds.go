// Package simio reads seed announcements and ROV deployments from disk and
// writes the per-AS RIBs produced by a simulation run.
package simio

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hervehildenbrand/bgp-sim/pkg/asgraph"
	"github.com/hervehildenbrand/bgp-sim/pkg/models"
)

// LoadSeeds reads seed announcements from a CSV file with a header line and
// "origin_asn,prefix,rov_invalid" records.
func LoadSeeds(path string) ([]models.Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open announcements file: %w", err)
	}
	defer f.Close()
	return ReadSeeds(f)
}

// ReadSeeds parses seed records. The first line is a header and is
// discarded; rows without three fields or a numeric origin are skipped. The
// rov_invalid field is the case-insensitive literal "true" or "false", with
// surrounding whitespace and carriage returns trimmed.
func ReadSeeds(r io.Reader) ([]models.Seed, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read announcements header: %w", err)
	}

	var seeds []models.Seed
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(record) < 3 {
			continue
		}

		origin, err := strconv.ParseUint(strings.TrimSpace(record[0]), 10, 32)
		if err != nil {
			continue
		}
		seeds = append(seeds, models.Seed{
			OriginASN:  uint32(origin),
			Prefix:     strings.TrimSpace(record[1]),
			ROVInvalid: strings.EqualFold(strings.TrimSpace(record[2]), "true"),
		})
	}
	return seeds, nil
}

// ApplySeeds installs each seed at its origin AS. Seeds whose origin is not
// in the topology or whose prefix does not parse are reported and skipped.
// Returns the number of seeds installed.
func ApplySeeds(g *asgraph.Graph, seeds []models.Seed) int {
	applied := 0
	for _, s := range seeds {
		if err := g.SeedAnnouncement(s.OriginASN, s.Prefix, s.ROVInvalid); err != nil {
			log.Printf("Skipping seed %s at AS%d: %v", s.Prefix, s.OriginASN, err)
			continue
		}
		applied++
	}
	return applied
}
