package rislive

import (
	"encoding/json"
	"fmt"

	"github.com/hervehildenbrand/bgp-sim/pkg/models"
)

// RISMessage is the top-level message from RIS Live.
type RISMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RISUpdateData is the BGP update payload from RIS Live.
type RISUpdateData struct {
	Path          json.RawMessage   `json:"path"`
	Announcements []RISAnnouncement `json:"announcements"`
}

// RISAnnouncement lists announced prefixes.
type RISAnnouncement struct {
	Prefixes []string `json:"prefixes"`
}

// ParseSeed extracts a seed announcement (origin ASN + prefix) from a RIS
// Live WebSocket message. Returns nil for messages that carry no
// announcement (errors, rrc lists, pure withdrawals).
func ParseSeed(data []byte) (*models.Seed, error) {
	var msg RISMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	if msg.Type != "ris_message" {
		return nil, nil
	}

	var update RISUpdateData
	if err := json.Unmarshal(msg.Data, &update); err != nil {
		return nil, fmt.Errorf("unmarshal update data: %w", err)
	}

	asPath, err := parseASPath(update.Path)
	if err != nil {
		return nil, fmt.Errorf("parse AS path: %w", err)
	}
	if len(asPath) == 0 {
		return nil, nil
	}
	origin := asPath[len(asPath)-1]

	for _, ann := range update.Announcements {
		for _, prefix := range ann.Prefixes {
			return &models.Seed{OriginASN: origin, Prefix: prefix}, nil
		}
	}
	return nil, nil
}

// parseASPath flattens the AS path, which may contain nested arrays for
// AS_SETs. Input can be: [174, 3356, 65001] or [[174], [3356, 65001], 65002]
func parseASPath(data json.RawMessage) ([]uint32, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var simpleArray []uint32
	if err := json.Unmarshal(data, &simpleArray); err == nil {
		return simpleArray, nil
	}

	var mixedArray []json.RawMessage
	if err := json.Unmarshal(data, &mixedArray); err != nil {
		return nil, fmt.Errorf("cannot parse path: %w", err)
	}

	var result []uint32
	for _, elem := range mixedArray {
		var num uint32
		if err := json.Unmarshal(elem, &num); err == nil {
			result = append(result, num)
			continue
		}

		var nums []uint32
		if err := json.Unmarshal(elem, &nums); err == nil {
			result = append(result, nums...)
			continue
		}
	}

	return result, nil
}
