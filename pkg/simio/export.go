package simio

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/hervehildenbrand/bgp-sim/pkg/asgraph"
)

// RIBRow is one exported RIB entry.
type RIBRow struct {
	ASN    uint32
	Prefix string
	ASPath []uint32
}

// CollectRIBs flattens every AS's local RIB into rows sorted by (asn, prefix
// text), so repeated runs over the same inputs export byte-identical files.
func CollectRIBs(g *asgraph.Graph) []RIBRow {
	var rows []RIBRow
	for asn, n := range g.Nodes() {
		if n.Policy == nil {
			continue
		}
		for prefix, ann := range n.Policy.LocalRIB() {
			rows = append(rows, RIBRow{ASN: asn, Prefix: prefix.String(), ASPath: ann.ASPath})
		}
	}
	slices.SortFunc(rows, func(a, b RIBRow) int {
		if a.ASN != b.ASN {
			return cmp.Compare(a.ASN, b.ASN)
		}
		return cmp.Compare(a.Prefix, b.Prefix)
	})
	return rows
}

// formatPath renders an AS path in tuple form: "(1, 2, 3)", with a trailing
// comma for single-element paths: "(3,)".
func formatPath(path []uint32) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, asn := range path {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(uint64(asn), 10))
	}
	if len(path) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}

// WriteRIBs writes rows as CSV with the header "asn,prefix,as_path".
func WriteRIBs(w io.Writer, rows []RIBRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"asn", "prefix", "as_path"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ASN), 10),
			row.Prefix,
			formatPath(row.ASPath),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportRIBs writes all local RIBs to a CSV file at path. Returns the number
// of rows written.
func ExportRIBs(g *asgraph.Graph, path string) (int, error) {
	rows := CollectRIBs(g)

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := WriteRIBs(f, rows); err != nil {
		return 0, fmt.Errorf("write RIBs: %w", err)
	}
	return len(rows), nil
}
