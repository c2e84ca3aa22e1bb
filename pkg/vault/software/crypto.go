package software

import (
	"context"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/pkg/cryptography"
	"github.com/tcfw/didvault/pkg/vault"
)

var (
	_ vault.CryptoUtils = (*Crypto)(nil)
)

// Crypto implements the operations which need no private key material
type Crypto struct {
	rand io.Reader
}

func NewCrypto() *Crypto {
	return &Crypto{rand: rand.Reader}
}

func (c *Crypto) Verify(ctx context.Context, key, keyType, data, sig string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	kt, err := cryptography.ParseKeyType(keyType)
	if err != nil {
		return false, err
	}

	pk, err := vault.Decode(key)
	if err != nil {
		return false, err
	}

	msg, err := vault.Decode(data)
	if err != nil {
		return false, err
	}

	s, err := vault.Decode(sig)
	if err != nil {
		return false, err
	}

	return cryptography.Validate(kt, pk, s, msg)
}

// Encrypt seals plaintext to an X25519 key as a nacl anonymous box
func (c *Crypto) Encrypt(ctx context.Context, key, keyType, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	kt, err := cryptography.ParseKeyType(keyType)
	if err != nil {
		return "", err
	}

	if !kt.IsKeyAgreement() {
		return "", errors.Wrapf(vault.ErrUnsupportedOperation, "encrypt to %s", keyType)
	}

	pk, err := vault.Decode(key)
	if err != nil {
		return "", err
	}

	msg, err := vault.Decode(plaintext)
	if err != nil {
		return "", err
	}

	ct, err := cryptography.AnonEncrypt(pk, msg)
	if err != nil {
		return "", err
	}

	return vault.Encode(ct), nil
}

func (c *Crypto) GetRandom(ctx context.Context, n int) (string, error) {
	if n < 0 {
		return "", vault.ErrInvalidLength
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(c.rand, b); err != nil {
		return "", errors.Wrap(err, "reading random")
	}

	return vault.Encode(b), nil
}
