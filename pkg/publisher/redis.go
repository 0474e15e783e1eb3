// Package publisher pushes simulation results into Redis for other tools to
// consume.
package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hervehildenbrand/bgp-sim/pkg/asgraph"
)

const originTTL = 48 * time.Hour

// OriginPublisher stores each prefix's simulated origin AS, so downstream
// consumers can compare a simulated run against observed routing.
type OriginPublisher struct {
	client *redis.Client
}

// NewOriginPublisher wraps an existing Redis client.
func NewOriginPublisher(client *redis.Client) *OriginPublisher {
	return &OriginPublisher{client: client}
}

// Publish writes prefix origins and run statistics. The origin of a prefix
// is the rightmost ASN of any RIB entry's path for it.
func (p *OriginPublisher) Publish(ctx context.Context, g *asgraph.Graph) error {
	origins := make(map[string]uint32)
	entries := 0
	for _, n := range g.Nodes() {
		if n.Policy == nil {
			continue
		}
		for prefix, ann := range n.Policy.LocalRIB() {
			entries++
			if len(ann.ASPath) > 0 {
				origins[prefix.String()] = ann.ASPath[len(ann.ASPath)-1]
			}
		}
	}

	pipe := p.client.Pipeline()
	for prefix, origin := range origins {
		pipe.Set(ctx, "bgpsim:prefix:"+prefix+":origin", uint64(origin), originTTL)
	}
	pipe.Set(ctx, "bgpsim:stats:prefixes", len(origins), originTTL)
	pipe.Set(ctx, "bgpsim:stats:rib_entries", entries, originTTL)
	pipe.Set(ctx, "bgpsim:stats:rov_drops", g.ROVDropCount(), originTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish origins: %w", err)
	}
	return nil
}
