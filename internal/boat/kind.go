package boat

import (
	"fmt"
	"strings"
)

// Kind identifies one of the fixed boat variants.
type Kind int

const (
	Rowing Kind = iota + 1
	Motor
	Sailing
	Catamaran
	Cargo
)

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Spec holds the constant properties of a boat kind.
type Spec struct {
	// Name is the type name used in snapshots and the audit log.
	Name string
	// Display is the human-readable name.
	Display string
	// Alias is a short lowercase name accepted by ParseKind.
	Alias          string
	Prefix         byte
	Weight         Range // kilograms
	TopSpeed       Range // knots
	Characteristic Range
	// CharacteristicName names the kind-specific attribute.
	CharacteristicName string
	// BerthSpace is the capacity consumed. Below 1 the boat can share a
	// slot; otherwise it needs ceil(BerthSpace) contiguous slots.
	BerthSpace float64
	// BerthTime is the number of days the boat stays before leaving.
	BerthTime int
}

var specs = map[Kind]Spec{
	Rowing: {
		Name: "RowingBoat", Display: "Rowing Boat", Alias: "rowing", Prefix: 'R',
		Weight: Range{100, 300}, TopSpeed: Range{1, 3}, Characteristic: Range{1, 6},
		CharacteristicName: "MaxPassengers", BerthSpace: 0.5, BerthTime: 1,
	},
	Motor: {
		Name: "MotorBoat", Display: "Motor Boat", Alias: "motor", Prefix: 'M',
		Weight: Range{200, 3000}, TopSpeed: Range{1, 60}, Characteristic: Range{10, 1000},
		CharacteristicName: "HorsePower", BerthSpace: 1, BerthTime: 3,
	},
	Sailing: {
		Name: "SailingBoat", Display: "Sailing Boat", Alias: "sailing", Prefix: 'S',
		Weight: Range{800, 6000}, TopSpeed: Range{1, 12}, Characteristic: Range{10, 60},
		CharacteristicName: "Length", BerthSpace: 2, BerthTime: 4,
	},
	Catamaran: {
		Name: "Catamaran", Display: "Catamaran", Alias: "catamaran", Prefix: 'K',
		Weight: Range{1200, 8000}, TopSpeed: Range{1, 12}, Characteristic: Range{1, 4},
		CharacteristicName: "BedCount", BerthSpace: 3, BerthTime: 3,
	},
	Cargo: {
		Name: "CargoShip", Display: "Cargo Ship", Alias: "cargo", Prefix: 'L',
		Weight: Range{3000, 20000}, TopSpeed: Range{1, 20}, Characteristic: Range{0, 500},
		CharacteristicName: "Cargo", BerthSpace: 4, BerthTime: 6,
	},
}

// Kinds returns every boat kind in declaration order.
func Kinds() []Kind {
	return []Kind{Rowing, Motor, Sailing, Catamaran, Cargo}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := specs[k]
	return ok
}

// Spec returns the constant table entry for k.
func (k Kind) Spec() Spec {
	return specs[k]
}

func (k Kind) String() string {
	if s, ok := specs[k]; ok {
		return s.Name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a type name, display name, alias, or single-letter
// prefix to a Kind. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	name = strings.TrimSpace(name)
	compact := strings.ReplaceAll(name, " ", "")
	for _, k := range Kinds() {
		s := specs[k]
		if strings.EqualFold(compact, s.Name) || strings.EqualFold(name, s.Display) || strings.EqualFold(name, s.Alias) {
			return k, nil
		}
		if len(name) == 1 && strings.EqualFold(name, string(s.Prefix)) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown boat kind %q", name)
}

// kindByPrefix returns the kind owning an identity prefix.
func kindByPrefix(prefix byte) (Kind, bool) {
	for k, s := range specs {
		if s.Prefix == prefix {
			return k, true
		}
	}
	return 0, false
}
