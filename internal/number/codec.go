package number

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

// JSON envelope for numbers. Each variant marshals under its own key so
// the wire form is unambiguous and round-trips exactly:
//
//	{"int": 42}
//	{"big": "123456789012345678901234567890"}
//	{"decimal": "1.5E+3"}
//
// Big and decimal values travel as strings; JSON numbers cannot carry
// them without loss.

type envelope struct {
	Int     *int64  `json:"int,omitempty"`
	Big     *string `json:"big,omitempty"`
	Decimal *string `json:"decimal,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (n Int) MarshalJSON() ([]byte, error) {
	v := int64(n)
	return json.Marshal(envelope{Int: &v})
}

// MarshalJSON implements json.Marshaler.
func (n Big) MarshalJSON() ([]byte, error) {
	s := n.Int.String()
	return json.Marshal(envelope{Big: &s})
}

// MarshalJSON implements json.Marshaler.
func (n Decimal) MarshalJSON() ([]byte, error) {
	s := n.Dec.String()
	return json.Marshal(envelope{Decimal: &s})
}

// EncodeJSON marshals a number into its envelope form.
func EncodeJSON(n Number) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("number: cannot encode nil")
	}
	return json.Marshal(n)
}

// DecodeJSON unmarshals a number from its envelope form.
func DecodeJSON(data []byte) (Number, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("number: decode: %w", err)
	}
	switch {
	case env.Int != nil:
		return Int(*env.Int), nil
	case env.Big != nil:
		i, ok := new(big.Int).SetString(*env.Big, 10)
		if !ok {
			return nil, fmt.Errorf("number: decode: invalid big integer %q", *env.Big)
		}
		return Big{Int: i}, nil
	case env.Decimal != nil:
		d, _, err := apd.NewFromString(*env.Decimal)
		if err != nil {
			return nil, fmt.Errorf("number: decode: invalid decimal %q: %w", *env.Decimal, err)
		}
		return Decimal{Dec: d}, nil
	default:
		return nil, fmt.Errorf("number: decode: empty envelope")
	}
}
