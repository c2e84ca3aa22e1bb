package software

import (
	"crypto/ed25519"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tcfw/didvault/pkg/cryptography"
	"github.com/tcfw/didvault/pkg/vault"
)

const keyURNPrefix = "urn:uuid:"

type storedKey struct {
	ID         string   `msgpack:"i"`
	Type       string   `msgpack:"t"`
	Controller []string `msgpack:"c"`
	Public     []byte   `msgpack:"p"`
	Private    []byte   `msgpack:"s"`
}

func generateKey(kt cryptography.KeyType) (*storedKey, error) {
	k := &storedKey{
		ID:         keyURNPrefix + uuid.NewString(),
		Type:       kt.String(),
		Controller: []string{},
	}

	switch kt {
	case cryptography.Ed25519VerificationKey2018, cryptography.JwsVerificationKey2020:
		pk, sk, err := cryptography.GenerateEd25519()
		if err != nil {
			return nil, err
		}
		k.Public, k.Private = pk, sk
	case cryptography.EcdsaSecp256k1VerificationKey2019, cryptography.EcdsaSecp256k1RecoveryMethod2020:
		sk, err := cryptography.NewEcdsaSecp256k1PrivateKey()
		if err != nil {
			return nil, err
		}
		k.Public = sk.Public().(*cryptography.Secp256k1PublicKey).Bytes()
		k.Private = sk.Bytes()
	case cryptography.X25519KeyAgreementKey2019:
		pk, sk, err := cryptography.GenerateX25519()
		if err != nil {
			return nil, err
		}
		k.Public, k.Private = pk, sk
	default:
		return nil, errors.Wrapf(cryptography.ErrUnknownKeyType, "%q", kt.String())
	}

	return k, nil
}

func (k *storedKey) keyType() cryptography.KeyType {
	return cryptography.KeyType(k.Type)
}

func (k *storedKey) info() vault.PublicKeyInfo {
	ctrl := make([]string, len(k.Controller))
	copy(ctrl, k.Controller)

	return vault.PublicKeyInfo{
		ID:           k.ID,
		Type:         k.keyType(),
		PublicKeyHex: hex.EncodeToString(k.Public),
		Controller:   ctrl,
	}
}

func (k *storedKey) sign(msg []byte) ([]byte, error) {
	switch k.keyType() {
	case cryptography.Ed25519VerificationKey2018:
		return ed25519.Sign(ed25519.PrivateKey(k.Private), msg), nil
	case cryptography.JwsVerificationKey2020:
		return cryptography.SignJWS(ed25519.PrivateKey(k.Private), msg)
	case cryptography.EcdsaSecp256k1VerificationKey2019:
		sk, err := cryptography.NewSecp256k1PrivateKeyFromBytes(k.Private)
		if err != nil {
			return nil, err
		}
		return sk.SignCompact(msg)
	case cryptography.EcdsaSecp256k1RecoveryMethod2020:
		sk, err := cryptography.NewSecp256k1PrivateKeyFromBytes(k.Private)
		if err != nil {
			return nil, err
		}
		return sk.Sign(nil, msg, nil)
	default:
		return nil, errors.Wrapf(vault.ErrUnsupportedOperation, "sign with %s", k.Type)
	}
}

func (k *storedKey) decrypt(ct []byte) ([]byte, error) {
	if !k.keyType().IsKeyAgreement() {
		return nil, errors.Wrapf(vault.ErrUnsupportedOperation, "decrypt with %s", k.Type)
	}

	return cryptography.AnonDecrypt(k.Public, k.Private, ct)
}

func (k *storedKey) ecdh(peer []byte) ([]byte, error) {
	if !k.keyType().IsKeyAgreement() {
		return nil, errors.Wrapf(vault.ErrUnsupportedOperation, "key agreement with %s", k.Type)
	}

	return cryptography.ECDH(k.Private, peer)
}
