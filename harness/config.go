package harness

import "time"

// TrialConfig describes one experiment configuration. It is immutable after
// submission to the scheduler; two runs with the same config and seed MUST
// produce identical simulation outputs.
type TrialConfig struct {
	Name             string        // unique within a batch; keys the outcome map
	Replications     int           // repeated runs for statistical power (>= 1)
	Seed             int64         // base random seed
	Timeout          time.Duration // wall-clock deadline per replication
	SamplingInterval time.Duration // host resource sampling period (0 = no sampling)
}

// ReplicationConfig is a TrialConfig specialized for a single replication.
// Derived configs always carry Replications = 1 so a replication can never
// fan out into nested replications.
type ReplicationConfig struct {
	TrialConfig
	Replication int // zero-based replication index
}

// ForReplication derives the config for replication index i.
//
// Derivation formula: seed = base seed + i. The first replication reuses the
// base seed directly, so a single-replication trial reproduces the seed the
// caller asked for.
func (c TrialConfig) ForReplication(i int) ReplicationConfig {
	rc := ReplicationConfig{TrialConfig: c, Replication: i}
	rc.Seed = c.Seed + int64(i)
	rc.Replications = 1
	return rc
}

// Validate checks the config before any work starts. A non-nil return is
// always a *ValidationError.
func (c TrialConfig) Validate() error {
	if c.Name == "" {
		return &ValidationError{Config: c.Name, Field: "Name", Reason: "must not be empty"}
	}
	if c.Replications < 1 {
		return &ValidationError{Config: c.Name, Field: "Replications", Reason: "must be >= 1"}
	}
	if c.Timeout <= 0 {
		return &ValidationError{Config: c.Name, Field: "Timeout", Reason: "must be positive"}
	}
	if c.SamplingInterval < 0 {
		return &ValidationError{Config: c.Name, Field: "SamplingInterval", Reason: "must not be negative"}
	}
	return nil
}
