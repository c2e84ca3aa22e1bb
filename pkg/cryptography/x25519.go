package cryptography

import (
	"crypto/rand"

	"github.com/pkg/errors"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

const X25519KeySize = curve25519.ScalarSize

var (
	ErrDecryptionFailed = errors.New("decryption failed")
)

func GenerateX25519() (pub []byte, priv []byte, err error) {
	pk, sk, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, errors.Wrap(err, "generating x25519 key")
	}

	return pk[:], sk[:], nil
}

func ECDH(priv []byte, peer []byte) ([]byte, error) {
	if len(peer) != X25519KeySize {
		return nil, ErrInvalidPublicKey
	}

	secret, err := curve25519.X25519(priv, peer)
	if err != nil {
		return nil, errors.Wrap(err, "x25519")
	}

	return secret, nil
}

// AnonEncrypt seals msg to pub as a nacl anonymous box
func AnonEncrypt(pub []byte, msg []byte) ([]byte, error) {
	var pk [32]byte
	if len(pub) != len(pk) {
		return nil, ErrInvalidPublicKey
	}
	copy(pk[:], pub)

	ct, err := box.SealAnonymous(nil, msg, &pk, rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "sealing box")
	}

	return ct, nil
}

func AnonDecrypt(pub []byte, priv []byte, ct []byte) ([]byte, error) {
	var pk, sk [32]byte
	if len(pub) != len(pk) || len(priv) != len(sk) {
		return nil, ErrInvalidPublicKey
	}
	copy(pk[:], pub)
	copy(sk[:], priv)

	msg, ok := box.OpenAnonymous(nil, ct, &pk, &sk)
	if !ok {
		return nil, ErrDecryptionFailed
	}

	return msg, nil
}
