package boat

import (
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
)

const codeLength = 3

var codeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Boat is a vessel seeking mooring. Everything except the identity code
// suffix is fixed at construction.
type Boat struct {
	kind           Kind
	weight         int
	topSpeed       int
	characteristic int
	code           string
}

// New validates the arguments against the kind's limits and returns a boat
// with a freshly generated identity code.
func New(kind Kind, weight, topSpeed, characteristic int) (*Boat, error) {
	b, err := build(kind, weight, topSpeed, characteristic)
	if err != nil {
		return nil, err
	}
	b.code = randomCode(nil)
	return b, nil
}

// NewWithCode is New with an explicit three-letter code suffix.
func NewWithCode(kind Kind, code string, weight, topSpeed, characteristic int) (*Boat, error) {
	b, err := build(kind, weight, topSpeed, characteristic)
	if err != nil {
		return nil, err
	}
	code = strings.ToUpper(code)
	if !codeRegex.MatchString(code) {
		return nil, errors.ValidationError(fmt.Sprintf("invalid identity code %q: must be three letters", code))
	}
	b.code = code
	return b, nil
}

func build(kind Kind, weight, topSpeed, characteristic int) (*Boat, error) {
	s, ok := specs[kind]
	if !ok {
		return nil, errors.ValidationError(fmt.Sprintf("unknown boat kind %d", int(kind)))
	}
	if err := validate("weight", weight, s.Weight); err != nil {
		return nil, err
	}
	if err := validate("top speed", topSpeed, s.TopSpeed); err != nil {
		return nil, err
	}
	if err := validate(s.CharacteristicName, characteristic, s.Characteristic); err != nil {
		return nil, err
	}
	return &Boat{
		kind:           kind,
		weight:         weight,
		topSpeed:       topSpeed,
		characteristic: characteristic,
	}, nil
}

func validate(field string, v int, limits Range) error {
	if !limits.Contains(v) {
		return errors.ValidationError(fmt.Sprintf("%s was %d, but limits are from %d to %d", field, v, limits.Min, limits.Max))
	}
	return nil
}

func randomCode(r *rand.Rand) string {
	var sb strings.Builder
	for range codeLength {
		var n int
		if r != nil {
			n = r.IntN(26)
		} else {
			n = rand.IntN(26)
		}
		sb.WriteByte(byte('A' + n))
	}
	return sb.String()
}

// Kind returns the boat's variant.
func (b *Boat) Kind() Kind { return b.kind }

// TypeName returns the variant's type name, e.g. "CargoShip".
func (b *Boat) TypeName() string { return specs[b.kind].Name }

// Weight in kilograms.
func (b *Boat) Weight() int { return b.weight }

// TopSpeed in knots.
func (b *Boat) TopSpeed() int { return b.topSpeed }

// Characteristic returns the name of the kind-specific attribute.
func (b *Boat) Characteristic() string { return specs[b.kind].CharacteristicName }

// CharacteristicValue returns the value of the kind-specific attribute.
func (b *Boat) CharacteristicValue() int { return b.characteristic }

// BerthSpace is the capacity this boat consumes.
func (b *Boat) BerthSpace() float64 { return specs[b.kind].BerthSpace }

// BerthTime is the number of days this boat stays.
func (b *Boat) BerthTime() int { return specs[b.kind].BerthTime }

// Slots returns the number of whole slots an exclusive berth needs,
// or 1 for boats that share.
func (b *Boat) Slots() int {
	return int(math.Ceil(b.BerthSpace()))
}

// Shares reports whether the boat can share a slot with other small boats.
func (b *Boat) Shares() bool {
	return b.BerthSpace() < 1
}

// Code returns the three-letter identity suffix.
func (b *Boat) Code() string { return b.code }

// IdentityCode returns the unique identity, e.g. "R-ABC".
func (b *Boat) IdentityCode() string {
	return fmt.Sprintf("%c-%s", specs[b.kind].Prefix, b.code)
}

// RegenerateCode draws a new identity suffix. A nil r uses the global source.
func (b *Boat) RegenerateCode(r *rand.Rand) {
	b.code = randomCode(r)
}

// Compare orders boats by identity code, ignoring case.
func (b *Boat) Compare(other *Boat) int {
	return strings.Compare(strings.ToUpper(b.IdentityCode()), strings.ToUpper(other.IdentityCode()))
}

// SameIdentity reports whether both boats carry the same identity code.
func (b *Boat) SameIdentity(other *Boat) bool {
	return strings.EqualFold(b.IdentityCode(), other.IdentityCode())
}

func (b *Boat) String() string {
	return fmt.Sprintf("%s %s", b.TypeName(), b.IdentityCode())
}
