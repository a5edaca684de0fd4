package segment

import (
	"github.com/mitchellh/mapstructure"
)

// Decoder turns an opaque RawDoc into a typed shape. Production callers
// get one from NewMapstructureDecoder; tests can substitute a Decoder
// that always errors to exercise CorruptCompactionState handling.
type Decoder interface {
	Decode(raw RawDoc, target interface{}) error
}

// mapstructureDecoder is the production Decoder: it assumes RawDoc is the
// result of unmarshaling JSON (map[string]interface{} with float64/string/
// bool/nested-map leaves) and decodes it into the target struct using
// mapstructure, which is exactly the shape that library is for.
type mapstructureDecoder struct{}

// NewMapstructureDecoder returns the default Decoder.
func NewMapstructureDecoder() Decoder {
	return mapstructureDecoder{}
}

func (mapstructureDecoder) Decode(raw RawDoc, target interface{}) error {
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]interface{}(raw))
}
