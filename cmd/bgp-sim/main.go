// bgp-sim - BGP route propagation simulator over the Internet AS topology.
//
// Given AS business relationships (CAIDA serial-2) and a set of seed
// announcements, bgp-sim computes the steady-state routing decision of every
// AS under standard BGP preferences and valley-free export rules, optionally
// with ROV deployed at a subset of ASes.
//
// Usage:
//
//	bgp-sim --relationships as-rel.txt --announcements seeds.csv --output ribs.csv
//
// Environment variables (alternative to flags):
//
//	BGP_SIM_DATABASE   - PostgreSQL URL for RIB export
//	BGP_SIM_REDIS      - Redis URL for origin publication
//	BGP_SIM_COLLECTOR  - RIS Live collector for live seeds
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hervehildenbrand/bgp-sim/pkg/asgraph"
	"github.com/hervehildenbrand/bgp-sim/pkg/caida"
	"github.com/hervehildenbrand/bgp-sim/pkg/database"
	"github.com/hervehildenbrand/bgp-sim/pkg/models"
	"github.com/hervehildenbrand/bgp-sim/pkg/publisher"
	"github.com/hervehildenbrand/bgp-sim/pkg/rislive"
	"github.com/hervehildenbrand/bgp-sim/pkg/simio"
)

var (
	relationshipsFlag = flag.String("relationships", "", "AS relationships file, CAIDA serial-2 format (required unless -fetch)")
	announcementsFlag = flag.String("announcements", "", "Seed announcements CSV file (required unless -live-seeds)")
	rovASNsFlag       = flag.String("rov-asns", "", "File listing ASNs that deploy ROV (optional)")
	outputFlag        = flag.String("output", "ribs.csv", "Output CSV file")
	fetchFlag         = flag.Bool("fetch", false, "Download the latest CAIDA snapshot when -relationships is not given")
	databaseURLFlag   = flag.String("database", "", "PostgreSQL URL for RIB export (optional)")
	redisURLFlag      = flag.String("redis", "", "Redis URL for origin publication (optional)")
	liveSeedsFlag     = flag.String("live-seeds", "", "RIS Live collector to gather seeds from (optional, e.g. rrc00)")
	liveSeedCount     = flag.Int("live-seed-count", 100, "Number of seeds to collect from RIS Live")
	liveSeedTimeout   = flag.Duration("live-seed-timeout", 60*time.Second, "How long to wait for RIS Live seeds")
)

// getEnvOrFlag returns the flag value if set, otherwise the environment
// variable, otherwise the default.
func getEnvOrFlag(flagVal *string, envName, defaultVal string) string {
	if *flagVal != "" {
		return *flagVal
	}
	if env := os.Getenv(envName); env != "" {
		return env
	}
	return defaultVal
}

func fatalf(format string, args ...interface{}) {
	log.Printf("Error: "+format, args...)
	os.Exit(1)
}

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("bgp-sim starting...")

	databaseURL := getEnvOrFlag(databaseURLFlag, "BGP_SIM_DATABASE", "")
	redisURL := getEnvOrFlag(redisURLFlag, "BGP_SIM_REDIS", "")
	liveCollector := getEnvOrFlag(liveSeedsFlag, "BGP_SIM_COLLECTOR", "")

	relationshipsPath := *relationshipsFlag
	if relationshipsPath == "" && *fetchFlag {
		relationshipsPath = "as-rel.txt"
		if err := caida.NewFetcher().Download(relationshipsPath); err != nil {
			fatalf("fetch relationships: %v", err)
		}
	}
	if relationshipsPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -relationships is required (or pass -fetch)")
		flag.Usage()
		os.Exit(1)
	}
	if *announcementsFlag == "" && liveCollector == "" {
		fmt.Fprintln(os.Stderr, "Error: -announcements is required (or pass -live-seeds)")
		flag.Usage()
		os.Exit(1)
	}

	totalStart := time.Now()

	// Build the AS graph.
	start := time.Now()
	graph := asgraph.New()
	if _, err := caida.LoadRelationships(relationshipsPath, graph); err != nil {
		fatalf("build AS graph: %v", err)
	}
	log.Printf("Graph built in %v", time.Since(start))

	// Validate the provider-customer DAG.
	start = time.Now()
	if err := graph.ValidateAcyclic(); err != nil {
		fatalf("topology rejected: %v", err)
	}
	log.Printf("Cycle check passed in %v", time.Since(start))

	// Install routing policies.
	graph.InitPolicies()

	// Deploy ROV where configured.
	if *rovASNsFlag != "" {
		asns, err := simio.LoadROVASNs(*rovASNsFlag)
		if err != nil {
			fatalf("load ROV ASNs: %v", err)
		}
		upgraded := graph.LoadROV(asns)
		log.Printf("Loaded %d ROV ASNs, upgraded %d ASes to ROV policy", graph.ROVASNCount(), upgraded)
	}

	// Assign propagation ranks.
	start = time.Now()
	graph.AssignRanks()
	log.Printf("Ranks assigned in %v", time.Since(start))

	// Gather and install seeds.
	var seeds []models.Seed
	if *announcementsFlag != "" {
		loaded, err := simio.LoadSeeds(*announcementsFlag)
		if err != nil {
			fatalf("load announcements: %v", err)
		}
		seeds = append(seeds, loaded...)
	}
	if liveCollector != "" {
		collected, err := rislive.CollectSeeds(liveCollector, *liveSeedCount, *liveSeedTimeout)
		if err != nil {
			log.Printf("Warning: RIS Live seed collection failed: %v", err)
		}
		seeds = append(seeds, collected...)
	}
	applied := simio.ApplySeeds(graph, seeds)
	log.Printf("Seeded %d of %d announcements", applied, len(seeds))

	// Propagate.
	start = time.Now()
	total := graph.Propagate()
	log.Printf("Propagated in %v: %d RIB entries, %d ROV drops",
		time.Since(start), total, graph.ROVDropCount())

	// Export.
	start = time.Now()
	written, err := simio.ExportRIBs(graph, *outputFlag)
	if err != nil {
		fatalf("export RIBs: %v", err)
	}
	log.Printf("Exported %d rows to %s in %v", written, *outputFlag, time.Since(start))

	// Optional PostgreSQL export.
	if databaseURL != "" {
		writer, err := database.NewRIBWriter(databaseURL)
		if err != nil {
			log.Printf("Warning: database connection failed: %v", err)
		} else {
			if err := writer.WriteRows(simio.CollectRIBs(graph)); err != nil {
				log.Printf("Warning: database write failed: %v", err)
			}
			writer.Close()
		}
	}

	// Optional Redis publication.
	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Printf("Warning: invalid Redis URL: %v", err)
		} else {
			client := redis.NewClient(opt)
			ctx := context.Background()
			if err := client.Ping(ctx).Err(); err != nil {
				log.Printf("Warning: Redis connection failed: %v", err)
			} else if err := publisher.NewOriginPublisher(client).Publish(ctx, graph); err != nil {
				log.Printf("Warning: Redis publish failed: %v", err)
			}
			client.Close()
		}
	}

	log.Printf("Done in %v", time.Since(totalStart))
}
