// Package harness orchestrates batches of cloud-simulation experiments.
//
// # Reading Guide
//
// Start with these three files to understand the execution pipeline:
//   - config.go: TrialConfig, per-replication seed derivation, validation
//   - scheduler.go: the batch loop (parallel worker pool or sequential), outcome map
//   - retry.go: bounded retry of one configuration's replication set
//
// # Architecture
//
// A batch run flows BatchScheduler → RetryController → RunWithDeadline per
// replication, with one ResourceSampler goroutine per trial polling host
// CPU/memory concurrently. Replication outputs are merged by Aggregate into
// a single statistically described result per configuration.
//
// The simulation itself is an external collaborator behind the Runner
// interface; implementations live in sub-packages:
//   - harness/simrunner: built-in synthetic datacenter workload runner
//   - harness/hoststats: gopsutil-backed ResourceProbe
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Runner: execute one replication, honoring context cancellation
//   - ResourceProbe: poll-once host CPU% and memory% readings
package harness
