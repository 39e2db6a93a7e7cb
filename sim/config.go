package sim

import "fmt"

// Config carries the full engine configuration surface. Zero-value fields
// are filled by DefaultConfig; Validate fails fast before any simulation
// starts.
type Config struct {
	// MaxTasks caps the number of tasks processed; 0 means unlimited.
	// Hitting the cap is a truncation warning, not a failure.
	MaxTasks int

	// BatchSize bounds how many tasks are resident at once. It affects
	// memory, not correctness.
	BatchSize int

	// Concurrency sizes the worker pool for per-task side computations and
	// the result-sink fan-out. The clock advance is always sequential.
	Concurrency int

	// ColdStartSeconds is the container provisioning delay.
	ColdStartSeconds float64

	// ContainerReuse enables warm starts within ReuseTTLSeconds.
	ContainerReuse bool

	// ReuseTTLSeconds is the warm window after which a container expires.
	ReuseTTLSeconds float64

	// CostModelEnabled toggles per-task cost computation.
	CostModelEnabled bool

	// SkipMalformed skips bad workload records with a warning instead of
	// aborting the run. Defaults to false: aborting keeps aggregate
	// metrics deterministic.
	SkipMalformed bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxTasks:         0,
		BatchSize:        1000,
		Concurrency:      1,
		ColdStartSeconds: 0.1,
		ContainerReuse:   true,
		ReuseTTLSeconds:  60,
		CostModelEnabled: true,
	}
}

// Validate checks the configuration is usable. Any violation is a
// ConfigError and aborts before the engine touches the workload.
func (c Config) Validate() error {
	if c.MaxTasks < 0 {
		return &ConfigError{Field: "max_tasks", Reason: fmt.Sprintf("must be >= 0, got %d", c.MaxTasks)}
	}
	if c.BatchSize <= 0 {
		return &ConfigError{Field: "batch_size", Reason: fmt.Sprintf("must be > 0, got %d", c.BatchSize)}
	}
	if c.Concurrency <= 0 {
		return &ConfigError{Field: "concurrency", Reason: fmt.Sprintf("must be > 0, got %d", c.Concurrency)}
	}
	if c.ColdStartSeconds < 0 {
		return &ConfigError{Field: "cold_start_seconds", Reason: fmt.Sprintf("must be >= 0, got %v", c.ColdStartSeconds)}
	}
	if c.ReuseTTLSeconds < 0 {
		return &ConfigError{Field: "reuse_ttl_seconds", Reason: fmt.Sprintf("must be >= 0, got %v", c.ReuseTTLSeconds)}
	}
	return nil
}
