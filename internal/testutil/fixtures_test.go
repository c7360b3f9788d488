package testutil

import (
	"encoding/json"
	"testing"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
)

func TestSnapshotFixturesAreJSON(t *testing.T) {
	loaders := map[string]func() ([]byte, error){
		"valid":  ValidSnapshot,
		"future": FutureSnapshot,
	}

	for name, load := range loaders {
		t.Run(name, func(t *testing.T) {
			data, err := load()
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			var v map[string]any
			if err := json.Unmarshal(data, &v); err != nil {
				t.Errorf("fixture is not valid JSON: %v", err)
			}
		})
	}
}

func TestMalformedSnapshotIsNotJSON(t *testing.T) {
	data, err := MalformedSnapshot()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err == nil {
		t.Error("malformed fixture should not decode")
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, err := LoadFixture("nope.json"); err == nil {
		t.Error("expected error for missing fixture")
	}
}

func TestBoatHelpers(t *testing.T) {
	tests := []struct {
		b    *boat.Boat
		want string
	}{
		{Rowing(t, "AAA"), "R-AAA"},
		{Motor(t, "BBB"), "M-BBB"},
		{Sailing(t, "CCC"), "S-CCC"},
		{Catamaran(t, "DDD"), "K-DDD"},
		{Cargo(t, "EEE"), "L-EEE"},
	}

	for _, tt := range tests {
		if got := tt.b.IdentityCode(); got != tt.want {
			t.Errorf("IdentityCode() = %q, want %q", got, tt.want)
		}
	}
}

func TestRand_Deterministic(t *testing.T) {
	a, b := Rand(9), Rand(9)
	for range 5 {
		if a.IntN(1000) != b.IntN(1000) {
			t.Fatal("same seed should produce the same sequence")
		}
	}
}
