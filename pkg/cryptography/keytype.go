package cryptography

import (
	"github.com/pkg/errors"
)

// KeyType names a verification or key agreement suite a vault key can belong to.
// The set is closed; values outside of it never decode.
type KeyType string

var (
	ErrUnknownKeyType = errors.New("unknown key type")
)

const (
	JwsVerificationKey2020            KeyType = "JwsVerificationKey2020"
	EcdsaSecp256k1VerificationKey2019 KeyType = "EcdsaSecp256k1VerificationKey2019"
	Ed25519VerificationKey2018        KeyType = "Ed25519VerificationKey2018"
	EcdsaSecp256k1RecoveryMethod2020  KeyType = "EcdsaSecp256k1RecoveryMethod2020"
	X25519KeyAgreementKey2019         KeyType = "X25519KeyAgreementKey2019"
)

// KeyTypes lists every supported suite in declaration order
var KeyTypes = []KeyType{
	JwsVerificationKey2020,
	EcdsaSecp256k1VerificationKey2019,
	Ed25519VerificationKey2018,
	EcdsaSecp256k1RecoveryMethod2020,
	X25519KeyAgreementKey2019,
}

func ParseKeyType(s string) (KeyType, error) {
	for _, kt := range KeyTypes {
		if string(kt) == s {
			return kt, nil
		}
	}

	return "", errors.Wrapf(ErrUnknownKeyType, "%q", s)
}

func (k KeyType) String() string {
	return string(k)
}

func (k KeyType) Valid() bool {
	_, err := ParseKeyType(string(k))
	return err == nil
}

// IsSigning reports whether keys of this type produce signatures
func (k KeyType) IsSigning() bool {
	return k.Valid() && k != X25519KeyAgreementKey2019
}

// IsKeyAgreement reports whether keys of this type can decrypt and perform ECDH
func (k KeyType) IsKeyAgreement() bool {
	return k == X25519KeyAgreementKey2019
}

func (k KeyType) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.Wrapf(ErrUnknownKeyType, "%q", string(k))
	}

	return []byte(k), nil
}

func (k *KeyType) UnmarshalText(b []byte) error {
	kt, err := ParseKeyType(string(b))
	if err != nil {
		return err
	}

	*k = kt
	return nil
}
