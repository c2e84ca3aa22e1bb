package vault

import (
	"encoding/base64"

	"github.com/pkg/errors"
)

// Encoding is the canonical binary encoding on both sides of the engine boundary:
// the URL safe base64 alphabet without padding.
var Encoding = base64.RawURLEncoding

func Encode(b []byte) string {
	return Encoding.EncodeToString(b)
}

func Decode(s string) ([]byte, error) {
	b, err := Encoding.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedResponse, err.Error())
	}

	return b, nil
}
