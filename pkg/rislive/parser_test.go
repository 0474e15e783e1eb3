package rislive

import "testing"

func TestParseSeed_Announcement(t *testing.T) {
	msg := []byte(`{
		"type": "ris_message",
		"data": {
			"timestamp": 1705320000.123,
			"peer_asn": 6939,
			"path": [6939, 3356, 13335],
			"announcements": [{"prefixes": ["1.1.1.0/24"]}]
		}
	}`)

	seed, err := ParseSeed(msg)
	if err != nil {
		t.Fatalf("ParseSeed() error = %v", err)
	}
	if seed == nil {
		t.Fatal("expected seed, got nil")
	}

	if seed.Prefix != "1.1.1.0/24" {
		t.Errorf("Prefix = %s, want 1.1.1.0/24", seed.Prefix)
	}
	if seed.OriginASN != 13335 {
		t.Errorf("OriginASN = %d, want 13335", seed.OriginASN)
	}
	if seed.ROVInvalid {
		t.Error("ROVInvalid = true, want false for collected seeds")
	}
}

func TestParseSeed_NonRISMessage(t *testing.T) {
	msg := []byte(`{"type": "ris_error", "data": {"message": "test"}}`)

	seed, err := ParseSeed(msg)
	if err != nil {
		t.Fatalf("ParseSeed() error = %v", err)
	}
	if seed != nil {
		t.Error("expected nil for non-ris_message type")
	}
}

func TestParseSeed_Withdrawal(t *testing.T) {
	msg := []byte(`{
		"type": "ris_message",
		"data": {
			"timestamp": 1705320000.0,
			"peer_asn": "6939",
			"path": [6939, 3356],
			"withdrawals": ["192.0.2.0/24"]
		}
	}`)

	seed, err := ParseSeed(msg)
	if err != nil {
		t.Fatalf("ParseSeed() error = %v", err)
	}
	if seed != nil {
		t.Error("expected nil for a pure withdrawal")
	}
}

func TestParseSeed_NestedASPath(t *testing.T) {
	// AS path with AS_SET (nested array); the origin is the last element
	// after flattening.
	msg := []byte(`{
		"type": "ris_message",
		"data": {
			"timestamp": 1705320000.0,
			"peer_asn": 174,
			"path": [[174], [3356, 7018], 13335],
			"announcements": [{"prefixes": ["8.8.8.0/24"]}]
		}
	}`)

	seed, err := ParseSeed(msg)
	if err != nil {
		t.Fatalf("ParseSeed() error = %v", err)
	}
	if seed == nil {
		t.Fatal("expected seed, got nil")
	}
	if seed.OriginASN != 13335 {
		t.Errorf("OriginASN = %d, want 13335", seed.OriginASN)
	}
}

func TestParseSeed_EmptyPath(t *testing.T) {
	msg := []byte(`{
		"type": "ris_message",
		"data": {
			"timestamp": 1705320000.0,
			"announcements": [{"prefixes": ["8.8.8.0/24"]}]
		}
	}`)

	seed, err := ParseSeed(msg)
	if err != nil {
		t.Fatalf("ParseSeed() error = %v", err)
	}
	if seed != nil {
		t.Error("expected nil when the path is empty (no origin to seed)")
	}
}

func TestParseASPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []uint32
	}{
		{"simple array", `[174, 3356, 65001]`, []uint32{174, 3356, 65001}},
		{"nested AS_SET", `[[174], [3356, 65001], 65002]`, []uint32{174, 3356, 65001, 65002}},
		{"empty", ``, nil},
		{"null", `null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseASPath([]byte(tt.input))
			if err != nil {
				t.Fatalf("parseASPath(%s) error = %v", tt.input, err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("parseASPath(%s) = %v, want %v", tt.input, got, tt.expected)
			}
			for i, asn := range tt.expected {
				if got[i] != asn {
					t.Errorf("path[%d] = %d, want %d", i, got[i], asn)
				}
			}
		})
	}
}
