package envelope

import (
	"github.com/fxamacker/cbor/v2"

	cryptoDomain "github.com/allisson/passbox/internal/crypto/domain"
)

// Type tags an encoded envelope.
type Type uint8

const (
	// TypePlain marks a PlainEnvelope.
	TypePlain Type = 1
	// TypeWrapped marks a WrappedEnvelope.
	TypeWrapped Type = 2
)

// Envelope is implemented only by *PlainEnvelope and *WrappedEnvelope.
type Envelope interface {
	Type() Type
	sealed()
}

// PlainEnvelope holds fields encrypted under an existing content key.
type PlainEnvelope struct {
	Ciphertexts [][]byte
}

// Type implements Envelope.
func (*PlainEnvelope) Type() Type { return TypePlain }

func (*PlainEnvelope) sealed() {}

// WrappedEnvelope holds fields encrypted under a fresh content key plus that
// key wrapped under a secret-derived key.
type WrappedEnvelope struct {
	Key         WrappedKey
	Ciphertexts [][]byte
}

// Type implements Envelope.
func (*WrappedEnvelope) Type() Type { return TypeWrapped }

func (*WrappedEnvelope) sealed() {}

// Plain returns the fields of a wrapped envelope without the key.
func (w *WrappedEnvelope) Plain() *PlainEnvelope {
	return &PlainEnvelope{Ciphertexts: w.Ciphertexts}
}

type wireEnvelope struct {
	Type       Type     `cbor:"1,keyasint"`
	WrappedKey []byte   `cbor:"2,keyasint,omitempty"`
	Fields     [][]byte `cbor:"3,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("envelope: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("envelope: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serializes env with CBOR core deterministic encoding.
func Encode(env Envelope) ([]byte, error) {
	var wire wireEnvelope
	switch e := env.(type) {
	case *PlainEnvelope:
		if e == nil {
			return nil, ErrMalformedEnvelope
		}
		wire = wireEnvelope{Type: TypePlain, Fields: e.Ciphertexts}
	case *WrappedEnvelope:
		if e == nil {
			return nil, ErrMalformedEnvelope
		}
		if _, err := ParseWrappedKey(e.Key); err != nil {
			return nil, err
		}
		wire = wireEnvelope{Type: TypeWrapped, WrappedKey: e.Key, Fields: e.Ciphertexts}
	default:
		return nil, ErrMalformedEnvelope
	}

	if err := validateFields(wire.Fields); err != nil {
		return nil, err
	}
	return encMode.Marshal(wire)
}

// Decode parses bytes produced by Encode.
func Decode(data []byte) (Envelope, error) {
	var wire wireEnvelope
	if err := decMode.Unmarshal(data, &wire); err != nil {
		return nil, ErrMalformedEnvelope
	}
	if err := validateFields(wire.Fields); err != nil {
		return nil, err
	}

	switch wire.Type {
	case TypePlain:
		if len(wire.WrappedKey) != 0 {
			return nil, ErrMalformedEnvelope
		}
		return &PlainEnvelope{Ciphertexts: wire.Fields}, nil
	case TypeWrapped:
		key, err := ParseWrappedKey(wire.WrappedKey)
		if err != nil {
			return nil, err
		}
		return &WrappedEnvelope{Key: key, Ciphertexts: wire.Fields}, nil
	default:
		return nil, ErrMalformedEnvelope
	}
}

// DecodePlain decodes data and requires a PlainEnvelope.
func DecodePlain(data []byte) (*PlainEnvelope, error) {
	env, err := Decode(data)
	if err != nil {
		return nil, err
	}
	plain, ok := env.(*PlainEnvelope)
	if !ok {
		return nil, ErrMalformedEnvelope
	}
	return plain, nil
}

func validateFields(fields [][]byte) error {
	if len(fields) == 0 {
		return ErrMalformedEnvelope
	}
	for _, f := range fields {
		if len(f) < cryptoDomain.NonceSize+cryptoDomain.TagSize {
			return ErrMalformedEnvelope
		}
	}
	return nil
}
