package cryptography

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"

	"github.com/pkg/errors"
	jose "gopkg.in/square/go-jose.v2"
)

func GenerateEd25519() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, errors.Wrap(err, "generating ed25519 key")
	}

	return pk, sk, nil
}

func ValidateEd25519(pkbytes []byte, sig []byte, msg []byte) (bool, error) {
	if len(pkbytes) != ed25519.PublicKeySize {
		return false, ErrInvalidPublicKey
	}

	if len(sig) != ed25519.SignatureSize {
		return false, ErrInvalidSignatureShape
	}

	return ed25519.Verify(ed25519.PublicKey(pkbytes), msg, sig), nil
}

// SignJWS produces a compact EdDSA JWS over msg
func SignJWS(sk ed25519.PrivateKey, msg []byte) ([]byte, error) {
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: sk}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating jws signer")
	}

	obj, err := signer.Sign(msg)
	if err != nil {
		return nil, errors.Wrap(err, "signing jws")
	}

	s, err := obj.CompactSerialize()
	if err != nil {
		return nil, errors.Wrap(err, "serializing jws")
	}

	return []byte(s), nil
}

// ValidateJWS checks a compact EdDSA JWS was produced by pkbytes and carries msg as its payload
func ValidateJWS(pkbytes []byte, sig []byte, msg []byte) (bool, error) {
	if len(pkbytes) != ed25519.PublicKeySize {
		return false, ErrInvalidPublicKey
	}

	obj, err := jose.ParseSigned(string(sig))
	if err != nil {
		return false, errors.Wrap(ErrInvalidSignatureShape, err.Error())
	}

	payload, err := obj.Verify(ed25519.PublicKey(pkbytes))
	if err != nil {
		return false, nil
	}

	return bytes.Equal(payload, msg), nil
}
