package qagen

import "time"

// Config controls a batch run.
type Config struct {
	// Template renders the prompt for each seed.
	Template Template

	// Count is how many records to request per seed.
	Count int

	// Temperature overrides the template's default when >= 0.
	Temperature float64

	// Pacing is the fixed delay inserted between seeds. Not adaptive;
	// the endpoint is typically a single local process.
	Pacing time.Duration

	// UseSchema asks the provider for schema-constrained output.
	// The parser runs regardless.
	UseSchema bool

	// Progress, when set, is called after every seed.
	Progress func(ProgressEvent)
}

// ProgressEvent reports the outcome of one seed during a run.
type ProgressEvent struct {
	Index        int // zero-based seed position
	Total        int
	Seed         SeedPair
	Records      int
	TotalRecords int // running total across the batch
	Err          error
}

// DefaultConfig returns a Config with the reference defaults: five
// records per seed, one second of pacing, topical prompt.
func DefaultConfig() Config {
	return Config{
		Template:    templates["topical"],
		Count:       5,
		Temperature: -1,
		Pacing:      1 * time.Second,
	}
}
