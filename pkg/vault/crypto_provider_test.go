package vault_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcfw/didvault/pkg/cryptography"
	"github.com/tcfw/didvault/pkg/vault"
	"github.com/tcfw/didvault/pkg/vault/software"
)

type countingCrypto struct {
	vault.CryptoUtils
	calls int
}

func (c *countingCrypto) GetRandom(ctx context.Context, n int) (string, error) {
	c.calls++
	return c.CryptoUtils.GetRandom(ctx, n)
}

type failingCrypto struct {
	vault.CryptoUtils
}

func (failingCrypto) Verify(context.Context, string, string, string, string) (bool, error) {
	return false, errors.New("engine exploded")
}

func TestGetRandom(t *testing.T) {
	ctx := context.Background()
	u := &countingCrypto{CryptoUtils: software.NewCrypto()}
	c := vault.NewCryptoProvider(u)

	_, err := c.GetRandom(ctx, -1)
	assert.True(t, errors.Is(err, vault.ErrInvalidLength))
	assert.Equal(t, 0, u.calls, "precondition must fail before the engine is called")

	b, err := c.GetRandom(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, b)
	assert.Len(t, b, 0)

	b, err = c.GetRandom(ctx, 32)
	require.NoError(t, err)
	assert.Len(t, b, 32)
}

func TestVerifyCollapsesEngineFailure(t *testing.T) {
	ctx := context.Background()
	c := vault.NewCryptoProvider(failingCrypto{})

	assert.False(t, c.Verify(ctx, []byte{1}, cryptography.Ed25519VerificationKey2018, []byte("m"), []byte("s")))

	ok, err := c.VerifyStrict(ctx, []byte{1}, cryptography.Ed25519VerificationKey2018, []byte("m"), []byte("s"))
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestVerifyStrictDistinguishesOutcomes(t *testing.T) {
	ctx := context.Background()
	c := vault.NewCryptoProvider(software.NewCrypto())

	pk, sk, err := cryptography.GenerateEd25519()
	require.NoError(t, err)

	msg := []byte("m")
	sig, err := cryptography.SignJWS(sk, msg)
	require.NoError(t, err)

	ok, err := c.VerifyStrict(ctx, pk, cryptography.JwsVerificationKey2020, []byte("other"), sig)
	assert.NoError(t, err)
	assert.False(t, ok)

	//malformed public key is an engine failure, not an invalid signature
	ok, err = c.VerifyStrict(ctx, []byte{1, 2}, cryptography.JwsVerificationKey2020, msg, sig)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, c.Verify(ctx, []byte{1, 2}, cryptography.JwsVerificationKey2020, msg, sig))
}

func TestEncryptRequiresKeyAgreementKey(t *testing.T) {
	ctx := context.Background()
	c := vault.NewCryptoProvider(software.NewCrypto())

	pk, _, err := cryptography.GenerateEd25519()
	require.NoError(t, err)

	_, err = c.Encrypt(ctx, pk, cryptography.Ed25519VerificationKey2018, []byte("x"))
	assert.True(t, errors.Is(err, vault.ErrUnsupportedOperation))
}
