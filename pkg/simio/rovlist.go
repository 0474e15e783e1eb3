package simio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadROVASNs reads one decimal ASN per line. Blank lines and '#' comments
// are skipped, as are non-numeric lines and the invalid ASN 0.
func LoadROVASNs(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ROV ASNs file: %w", err)
	}
	defer f.Close()

	var asns []uint32
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		asn, err := strconv.ParseUint(line, 10, 32)
		if err != nil || asn == 0 {
			continue
		}
		asns = append(asns, uint32(asn))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ROV ASNs: %w", err)
	}
	return asns, nil
}
