// Package testutil provides test fixtures and utilities.
//
// # Boats
//
// Helpers build boats with fixed identity codes and mid-range values so
// tests can assert exact slot assignments:
//
//	r := testutil.Rowing(t, "AAA")   // R-AAA, berth space 0.5
//	c := testutil.Cargo(t, "BBB")    // L-BBB, four slots
//
// # Fixtures
//
// Snapshot and configuration fixtures are embedded using go:embed:
//
//	fixtures/snapshot_valid.json
//	fixtures/snapshot_future.json
//	fixtures/snapshot_malformed.json
//	fixtures/config_valid.toml
//	fixtures/config_invalid.toml
//
// Fixtures are returned as raw bytes so packages under test decode them
// with their own types:
//
//	data, err := testutil.ValidSnapshot()
package testutil
