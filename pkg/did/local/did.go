package local

import (
	"strings"

	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
)

const (
	Method = "vault"
	Prefix = "did:" + Method + ":"

	SigningKeyFragment    = "#keys-1"
	EncryptionKeyFragment = "#keys-2"
)

var (
	ErrNotLocalDID = errors.New("not a did:vault identifier")
)

// DeriveDID forms the DID from the base58 sha2-256 multihash of the signing public key
func DeriveDID(signingKey []byte) (string, error) {
	mh, err := multihash.Sum(signingKey, multihash.SHA2_256, -1)
	if err != nil {
		return "", errors.Wrap(err, "hashing signing key")
	}

	return Prefix + mh.B58String(), nil
}

// MatchesKey reports whether did was derived from signingKey
func MatchesKey(did string, signingKey []byte) bool {
	if !strings.HasPrefix(did, Prefix) {
		return false
	}

	mh, err := multihash.FromB58String(strings.TrimPrefix(did, Prefix))
	if err != nil {
		return false
	}

	want, err := multihash.Sum(signingKey, multihash.SHA2_256, -1)
	if err != nil {
		return false
	}

	return string(mh) == string(want)
}
