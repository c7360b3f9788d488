package testutil

import "embed"

//go:embed fixtures/*.json fixtures/*.toml
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// ValidSnapshot returns a snapshot document with two docks, a shared
// berth, exclusive berths, departures, and a turned-away boat.
func ValidSnapshot() ([]byte, error) {
	return LoadFixture("snapshot_valid.json")
}

// FutureSnapshot returns a snapshot written by a newer version: it carries
// unknown fields and unknown algorithm names.
func FutureSnapshot() ([]byte, error) {
	return LoadFixture("snapshot_future.json")
}

// MalformedSnapshot returns a truncated snapshot document.
func MalformedSnapshot() ([]byte, error) {
	return LoadFixture("snapshot_malformed.json")
}

// ValidConfig returns a TOML configuration touching every section.
func ValidConfig() ([]byte, error) {
	return LoadFixture("config_valid.toml")
}

// InvalidConfig returns a TOML configuration that fails validation.
func InvalidConfig() ([]byte, error) {
	return LoadFixture("config_invalid.toml")
}
