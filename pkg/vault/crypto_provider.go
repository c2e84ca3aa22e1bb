package vault

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/cryptography"
)

// CryptoProvider is the byte oriented view over CryptoUtils
type CryptoProvider struct {
	utils CryptoUtils
}

func NewCryptoProvider(u CryptoUtils) *CryptoProvider {
	return &CryptoProvider{utils: u}
}

// Verify reports whether sig is a valid signature over data by key.
//
// Any engine failure is reported as false, so an invalid signature and a
// failed verification cannot be told apart here. Use VerifyStrict to keep them
// apart.
func (c *CryptoProvider) Verify(ctx context.Context, key []byte, keyType cryptography.KeyType, data []byte, sig []byte) bool {
	ok, err := c.VerifyStrict(ctx, key, keyType, data, sig)
	if err != nil {
		logging.Entry().WithError(err).WithField("type", keyType).Debug("verification engine failure")
		return false
	}

	return ok
}

// VerifyStrict returns (false, nil) for a well formed but invalid signature and
// a non-nil error when the engine could not verify at all.
func (c *CryptoProvider) VerifyStrict(ctx context.Context, key []byte, keyType cryptography.KeyType, data []byte, sig []byte) (bool, error) {
	return c.utils.Verify(ctx, Encode(key), keyType.String(), Encode(data), Encode(sig))
}

// Encrypt anon-crypts plaintext to key. Schemes are engine defined and two
// engines' ciphertexts are not guaranteed to be compatible.
func (c *CryptoProvider) Encrypt(ctx context.Context, key []byte, keyType cryptography.KeyType, plaintext []byte) ([]byte, error) {
	ct, err := c.utils.Encrypt(ctx, Encode(key), keyType.String(), Encode(plaintext))
	if err != nil {
		return nil, err
	}

	return Decode(ct)
}

func (c *CryptoProvider) GetRandom(ctx context.Context, n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrInvalidLength, "n=%d", n)
	}

	if n == 0 {
		return []byte{}, nil
	}

	r, err := c.utils.GetRandom(ctx, n)
	if err != nil {
		return nil, err
	}

	return Decode(r)
}
