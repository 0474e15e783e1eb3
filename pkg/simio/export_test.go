package simio

import (
	"bytes"
	"testing"

	"github.com/hervehildenbrand/bgp-sim/pkg/asgraph"
	"github.com/hervehildenbrand/bgp-sim/pkg/models"
)

func buildPropagated(t *testing.T) *asgraph.Graph {
	t.Helper()
	g := asgraph.New()
	g.AddRelationship(1, 2, asgraph.EdgeCustomer)
	g.AddRelationship(2, 3, asgraph.EdgeCustomer)
	g.AddRelationship(1, 4, asgraph.EdgeCustomer)
	g.AddRelationship(2, 4, asgraph.EdgePeer)
	g.InitPolicies()
	g.AssignRanks()
	ApplySeeds(g, []models.Seed{{OriginASN: 3, Prefix: "10.0.0.0/8"}})
	g.Propagate()
	return g
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		name     string
		path     []uint32
		expected string
	}{
		{"single element has trailing comma", []uint32{3}, "(3,)"},
		{"two elements", []uint32{2, 3}, "(2, 3)"},
		{"three elements", []uint32{1, 2, 3}, "(1, 2, 3)"},
		{"empty", nil, "()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCollectRIBsSorted(t *testing.T) {
	g := buildPropagated(t)

	rows := CollectRIBs(g)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.ASN > cur.ASN || (prev.ASN == cur.ASN && prev.Prefix > cur.Prefix) {
			t.Errorf("rows not sorted at index %d: %+v before %+v", i, prev, cur)
		}
	}
}

func TestWriteRIBs(t *testing.T) {
	g := buildPropagated(t)

	var buf bytes.Buffer
	if err := WriteRIBs(&buf, CollectRIBs(g)); err != nil {
		t.Fatalf("WriteRIBs() error = %v", err)
	}

	want := "asn,prefix,as_path\n" +
		"1,10.0.0.0/8,\"(1, 2, 3)\"\n" +
		"2,10.0.0.0/8,\"(2, 3)\"\n" +
		"3,10.0.0.0/8,\"(3,)\"\n" +
		"4,10.0.0.0/8,\"(4, 2, 3)\"\n"

	if got := buf.String(); got != want {
		t.Errorf("WriteRIBs() output:\n%s\nwant:\n%s", got, want)
	}
}

// Two exports of the same converged graph must be byte-identical.
func TestExportDeterministic(t *testing.T) {
	g := buildPropagated(t)

	var a, b bytes.Buffer
	if err := WriteRIBs(&a, CollectRIBs(g)); err != nil {
		t.Fatalf("WriteRIBs() error = %v", err)
	}
	if err := WriteRIBs(&b, CollectRIBs(g)); err != nil {
		t.Fatalf("WriteRIBs() error = %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("repeated exports differ")
	}
}
