package boat

import (
	"fmt"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
)

// Data is the serializable projection of a Boat.
type Data struct {
	Type           string `json:"type"`
	Prefix         string `json:"prefix"`
	Code           string `json:"code"`
	TopSpeed       int    `json:"topSpeed"`
	Weight         int    `json:"weight"`
	Characteristic int    `json:"characteristic"`
}

// Data returns the serializable projection of b.
func (b *Boat) Data() Data {
	return Data{
		Type:           b.TypeName(),
		Prefix:         string(specs[b.kind].Prefix),
		Code:           b.code,
		TopSpeed:       b.topSpeed,
		Weight:         b.weight,
		Characteristic: b.characteristic,
	}
}

// FromData rebuilds a boat from its projection. The type name must be
// known, the prefix must belong to that type, and every value must be in
// range.
func FromData(d Data) (*Boat, error) {
	kind, err := ParseKind(d.Type)
	if err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	if d.Prefix != "" {
		if len(d.Prefix) != 1 {
			return nil, errors.ValidationError(fmt.Sprintf("invalid prefix %q", d.Prefix))
		}
		owner, ok := kindByPrefix(d.Prefix[0])
		if !ok || owner != kind {
			return nil, errors.ValidationError(fmt.Sprintf("prefix %q does not match type %s", d.Prefix, kind))
		}
	}
	return NewWithCode(kind, d.Code, d.Weight, d.TopSpeed, d.Characteristic)
}
