package models

// Seed is one announcement to install at its origin AS before propagation.
// The prefix is kept textual until seeding so malformed records can be
// reported with their original spelling.
type Seed struct {
	OriginASN  uint32
	Prefix     string
	ROVInvalid bool
}
