// Package rislive collects seed announcements from the RIPE RIS Live BGP
// stream.
package rislive

import (
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hervehildenbrand/bgp-sim/pkg/models"
)

const (
	// RISLiveURL is the WebSocket endpoint for RIS Live.
	RISLiveURL = "wss://ris-live.ripe.net/v1/ws/"

	handshakeTimeout = 60 * time.Second
	writeTimeout     = 10 * time.Second
)

// CollectSeeds connects to RIS Live, subscribes to a collector's UPDATE
// stream, and returns up to count announcements usable as simulation seeds,
// at most one per prefix. Collection stops once count seeds are gathered or
// timeout elapses; a timeout with some seeds in hand is not an error.
func CollectSeeds(collector string, count int, timeout time.Duration) ([]models.Seed, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}

	log.Printf("[%s] Connecting to RIS Live...", collector)
	conn, _, err := dialer.Dial(RISLiveURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}
	defer conn.Close()

	subscribe := map[string]interface{}{
		"type": "ris_subscribe",
		"data": map[string]interface{}{
			"type": "UPDATE",
			"host": collector,
		},
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(subscribe); err != nil {
		return nil, fmt.Errorf("subscribe failed: %w", err)
	}
	log.Printf("[%s] Connected and subscribed", collector)

	conn.SetReadDeadline(time.Now().Add(timeout))

	seeds := make([]models.Seed, 0, count)
	seen := make(map[string]bool)
	for len(seeds) < count {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || len(seeds) > 0 {
				break
			}
			return nil, fmt.Errorf("read failed: %w", err)
		}
		if messageType != websocket.TextMessage {
			continue
		}

		seed, err := ParseSeed(message)
		if err != nil || seed == nil {
			continue
		}
		if seen[seed.Prefix] {
			continue
		}
		seen[seed.Prefix] = true
		seeds = append(seeds, *seed)
	}

	log.Printf("[%s] Collected %d seeds", collector, len(seeds))
	return seeds, nil
}
