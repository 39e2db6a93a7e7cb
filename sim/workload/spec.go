package workload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GeneratorSpec is the YAML configuration for synthetic workload
// generation. Loaded via LoadGeneratorSpec(path).
type GeneratorSpec struct {
	Seed            int64   `yaml:"seed"`
	NumTasks        int     `yaml:"num_tasks"`
	NumApps         int     `yaml:"num_apps,omitempty"` // 0 = derive from num_tasks
	DurationSeconds float64 `yaml:"duration_seconds,omitempty"`
	StartTime       float64 `yaml:"start_time,omitempty"` // epoch seconds; 0 = simulation-local origin
	HeavyTraffic    bool    `yaml:"heavy_traffic,omitempty"`
	BurstIntensity  float64 `yaml:"burst_intensity,omitempty"`
	DeadlineMin     float64 `yaml:"deadline_min_seconds,omitempty"`
	DeadlineMax     float64 `yaml:"deadline_max_seconds,omitempty"`
}

// DefaultGeneratorSpec returns a spec producing a moderate one-hour
// workload with deadlines 5 to 30 minutes after arrival.
func DefaultGeneratorSpec() GeneratorSpec {
	return GeneratorSpec{
		Seed:            42,
		NumTasks:        1000,
		DurationSeconds: 3600,
		BurstIntensity:  1.0,
		DeadlineMin:     300,
		DeadlineMax:     1800,
	}
}

// Validate checks the spec before generation starts.
func (s *GeneratorSpec) Validate() error {
	if s.NumTasks <= 0 {
		return fmt.Errorf("num_tasks must be > 0, got %d", s.NumTasks)
	}
	if s.NumApps < 0 {
		return fmt.Errorf("num_apps must be >= 0, got %d", s.NumApps)
	}
	if s.DurationSeconds <= 0 {
		return fmt.Errorf("duration_seconds must be > 0, got %v", s.DurationSeconds)
	}
	if s.BurstIntensity <= 0 {
		return fmt.Errorf("burst_intensity must be > 0, got %v", s.BurstIntensity)
	}
	if s.DeadlineMin <= 0 || s.DeadlineMax < s.DeadlineMin {
		return fmt.Errorf("deadline range [%v, %v] is invalid", s.DeadlineMin, s.DeadlineMax)
	}
	return nil
}

// apps returns the effective app count: a few tasks per app on average when
// unset.
func (s *GeneratorSpec) apps() int {
	if s.NumApps > 0 {
		return s.NumApps
	}
	n := s.NumTasks / 30
	if n < 1 {
		n = 1
	}
	return n
}

// LoadGeneratorSpec reads and validates a GeneratorSpec from a YAML file.
func LoadGeneratorSpec(path string) (*GeneratorSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading generator spec %s: %w", path, err)
	}
	spec := DefaultGeneratorSpec()
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing generator spec %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator spec %s: %w", path, err)
	}
	return &spec, nil
}
