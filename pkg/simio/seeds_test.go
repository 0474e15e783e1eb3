package simio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hervehildenbrand/bgp-sim/pkg/asgraph"
	"github.com/hervehildenbrand/bgp-sim/pkg/models"
)

func TestReadSeeds(t *testing.T) {
	input := "origin_asn,prefix,rov_invalid\r\n" +
		"3,10.0.0.0/8,false\r\n" +
		"4,192.0.2.0/24,TRUE\r\n" +
		"5,1.2.0.0/16, True \r\n" +
		"x,203.0.113.0/24,false\r\n" +
		"6,2001:db8::/32,false\r\n"

	seeds, err := ReadSeeds(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSeeds() error = %v", err)
	}

	want := []models.Seed{
		{OriginASN: 3, Prefix: "10.0.0.0/8", ROVInvalid: false},
		{OriginASN: 4, Prefix: "192.0.2.0/24", ROVInvalid: true},
		{OriginASN: 5, Prefix: "1.2.0.0/16", ROVInvalid: true},
		{OriginASN: 6, Prefix: "2001:db8::/32", ROVInvalid: false},
	}

	if len(seeds) != len(want) {
		t.Fatalf("got %d seeds, want %d: %v", len(seeds), len(want), seeds)
	}
	for i, w := range want {
		if seeds[i] != w {
			t.Errorf("seed[%d] = %+v, want %+v", i, seeds[i], w)
		}
	}
}

func TestReadSeedsHeaderOnly(t *testing.T) {
	seeds, err := ReadSeeds(strings.NewReader("origin_asn,prefix,rov_invalid\n"))
	if err != nil {
		t.Fatalf("ReadSeeds() error = %v", err)
	}
	if len(seeds) != 0 {
		t.Errorf("got %d seeds from header-only input, want 0", len(seeds))
	}
}

func TestLoadSeedsMissingFile(t *testing.T) {
	if _, err := LoadSeeds("/nonexistent/seeds.csv"); err == nil {
		t.Error("LoadSeeds() on missing file: want error")
	}
}

func TestApplySeeds(t *testing.T) {
	g := asgraph.New()
	g.AddRelationship(1, 3, asgraph.EdgeCustomer)
	g.InitPolicies()

	seeds := []models.Seed{
		{OriginASN: 3, Prefix: "10.0.0.0/8"},
		{OriginASN: 99, Prefix: "192.0.2.0/24"}, // unknown origin, skipped
		{OriginASN: 1, Prefix: "not-a-prefix"},  // bad prefix, skipped
	}

	if applied := ApplySeeds(g, seeds); applied != 1 {
		t.Errorf("ApplySeeds() = %d, want 1", applied)
	}
	if got := g.RIBEntryCount(); got != 1 {
		t.Errorf("RIBEntryCount() = %d, want 1", got)
	}
}

func TestLoadROVASNs(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "rov_asns.txt")

	content := `# ROV deployers
64500

0
abc
64501
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	asns, err := LoadROVASNs(path)
	if err != nil {
		t.Fatalf("LoadROVASNs() error = %v", err)
	}

	want := []uint32{64500, 64501}
	if len(asns) != len(want) {
		t.Fatalf("got %d ASNs, want %d: %v", len(asns), len(want), asns)
	}
	for i, w := range want {
		if asns[i] != w {
			t.Errorf("asns[%d] = %d, want %d", i, asns[i], w)
		}
	}
}

func TestLoadROVASNsMissingFile(t *testing.T) {
	if _, err := LoadROVASNs("/nonexistent/rov.txt"); err == nil {
		t.Error("LoadROVASNs() on missing file: want error")
	}
}
