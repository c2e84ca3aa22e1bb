package cryptography

import (
	"github.com/multiformats/go-multibase"
)

func DecodeMultibase(mb string) ([]byte, error) {
	_, d, err := multibase.Decode(mb)
	return d, err
}

func EncodeMultibase(raw []byte) (string, error) {
	return multibase.Encode(multibase.Base58BTC, raw)
}
