package vault

import (
	"context"
	"encoding/hex"

	"github.com/tcfw/didvault/pkg/cryptography"
)

// PublicKeyInfo describes a single key held in a wallet. Values are only ever
// produced by decoding engine output.
type PublicKeyInfo struct {
	ID           string               `json:"id"`
	Type         cryptography.KeyType `json:"type"`
	PublicKeyHex string               `json:"publicKeyHex"`
	Controller   []string             `json:"controller"`
}

func (k *PublicKeyInfo) PublicKey() ([]byte, error) {
	return hex.DecodeString(k.PublicKeyHex)
}

func (k *PublicKeyInfo) HasController(controller string) bool {
	for _, c := range k.Controller {
		if c == controller {
			return true
		}
	}

	return false
}

type addKeyResult struct {
	NewEncryptedState string        `json:"newEncryptedState"`
	NewKey            PublicKeyInfo `json:"newKey"`
}

// KeyProvider is the password gated view of a vault used by identity wallets
// and registrars.
type KeyProvider interface {
	ID() string
	PubKey(ctx context.Context, pass, keyRef string) (*PublicKeyInfo, error)
	PubKeyByController(ctx context.Context, pass, controller string) (*PublicKeyInfo, error)
	PubKeys(ctx context.Context, pass string) ([]PublicKeyInfo, error)
	NewKeyPair(ctx context.Context, pass string, keyType cryptography.KeyType, controller string) (*PublicKeyInfo, error)
	SetKeyController(ctx context.Context, pass, keyRef, controller string) error
	ChangeID(ctx context.Context, pass, newID string) error
	Sign(ctx context.Context, pass, keyRef string, data []byte) ([]byte, error)
	Decrypt(ctx context.Context, pass, keyRef string, data []byte) ([]byte, error)
	ECDHKeyAgreement(ctx context.Context, pass, keyRef string, pubKey []byte) ([]byte, error)
}

// WalletEngine performs every operation on the encrypted wallet. Binary values
// on both sides are canonically encoded (see Encoding). Mutating operations take
// the current encrypted state and return the replacement state.
type WalletEngine interface {
	NewWallet(ctx context.Context, id, pass string) (string, error)
	ChangePass(ctx context.Context, wallet, id, oldPass, newPass string) (string, error)
	ChangeID(ctx context.Context, wallet, id, newID, pass string) (string, error)

	// NewKey returns a JSON object {"newEncryptedState": ..., "newKey": PublicKeyInfo}.
	// An empty controller adds no controller to the key.
	NewKey(ctx context.Context, wallet, id, pass, keyType, controller string) (string, error)
	AddContent(ctx context.Context, wallet, id, pass, content string) (string, error)
	SetKeyController(ctx context.Context, wallet, id, pass, keyRef, controller string) (string, error)

	// GetKey, GetKeyByController and GetKeys return PublicKeyInfo JSON
	GetKey(ctx context.Context, wallet, id, pass, keyRef string) (string, error)
	GetKeyByController(ctx context.Context, wallet, id, pass, controller string) (string, error)
	GetKeys(ctx context.Context, wallet, id, pass string) (string, error)

	Sign(ctx context.Context, wallet, id, pass, keyRef, data string) (string, error)
	Decrypt(ctx context.Context, wallet, id, pass, keyRef, ciphertext string) (string, error)
	ECDHKeyAgreement(ctx context.Context, wallet, id, pass, keyRef, pubKey string) (string, error)
}

// CryptoUtils are the operations which need no private key material
type CryptoUtils interface {
	Verify(ctx context.Context, key, keyType, data, sig string) (bool, error)
	Encrypt(ctx context.Context, key, keyType, plaintext string) (string, error)
	GetRandom(ctx context.Context, n int) (string, error)
}
