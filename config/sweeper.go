package config

import "time"

// SweeperConfig contains expired-session sweeper configuration.
type SweeperConfig struct {
	// Interval is the sweep tick interval.
	Interval time.Duration `env:"SWEEP_INTERVAL" envDefault:"60m"`

	// ScanCount is the COUNT hint per SCAN page while sweeping session keys.
	ScanCount int `env:"SWEEP_SCAN_COUNT" envDefault:"250"`
}

// Sanitize applies guardrails to sweeper configuration values.
func (s *SweeperConfig) Sanitize() {
	// Enforce a minimum interval to keep sweep load off the request path
	if s.Interval < time.Minute {
		s.Interval = time.Minute
	}
	if s.ScanCount < 10 {
		s.ScanCount = 10
	}
	if s.ScanCount > 10_000 {
		s.ScanCount = 10_000
	}
}
