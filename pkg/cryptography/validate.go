package cryptography

import "github.com/pkg/errors"

type SignatureValidator func(pk []byte, sig []byte, msg []byte) (bool, error)

var (
	ErrUnsupportedKeyType = errors.New("key type does not support signatures")

	validators = map[KeyType]SignatureValidator{
		JwsVerificationKey2020:            ValidateJWS,
		EcdsaSecp256k1VerificationKey2019: ValidateEcdsaSecp256k1,
		Ed25519VerificationKey2018:        ValidateEd25519,
		EcdsaSecp256k1RecoveryMethod2020:  ValidateEcdsaSecp256k1Recovery,
	}
)

// Validate checks sig over msg with the public key pk of type kt.
// A false result with a nil error means the signature is well formed but invalid.
func Validate(kt KeyType, pk []byte, sig []byte, msg []byte) (bool, error) {
	validator, ok := validators[kt]
	if !ok {
		if !kt.Valid() {
			return false, errors.Wrapf(ErrUnknownKeyType, "%q", string(kt))
		}
		return false, errors.Wrap(ErrUnsupportedKeyType, kt.String())
	}

	return validator(pk, sig, msg)
}
