package software

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/tcfw/didvault/pkg/cryptography"
	"github.com/tcfw/didvault/pkg/vault"
)

const (
	walletVersion1 byte = 1

	saltSize = 16

	defaultKDFTime    = 1
	defaultKDFMemory  = 64 * 1024
	defaultKDFThreads = 4
)

var (
	_ vault.WalletEngine = (*Engine)(nil)
)

type Option func(*Engine) error

// WithKDFParams sets the Argon2id cost parameters used when sealing wallets.
// Wallets sealed with other parameters will not open.
func WithKDFParams(time, memoryKiB uint32, threads uint8) Option {
	return func(e *Engine) error {
		if time == 0 || memoryKiB == 0 || threads == 0 {
			return errors.New("kdf params must be non-zero")
		}
		e.kdfTime = time
		e.kdfMemory = memoryKiB
		e.kdfThreads = threads
		return nil
	}
}

// Engine is an in-process wallet engine. Wallets are msgpack encoded contents
// sealed with XChaCha20-Poly1305 under an Argon2id derived key, with the wallet
// id as associated data.
type Engine struct {
	kdfTime    uint32
	kdfMemory  uint32
	kdfThreads uint8

	rand io.Reader
}

func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		kdfTime:    defaultKDFTime,
		kdfMemory:  defaultKDFMemory,
		kdfThreads: defaultKDFThreads,
		rand:       rand.Reader,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

type contents struct {
	Keys     []*storedKey `msgpack:"k"`
	Contents [][]byte     `msgpack:"c"`
}

func (e *Engine) deriveKey(pass string, salt []byte) []byte {
	return argon2.IDKey([]byte(pass), salt, e.kdfTime, e.kdfMemory, e.kdfThreads, chacha20poly1305.KeySize)
}

func (e *Engine) seal(c *contents, id, pass string) (string, error) {
	if pass == "" {
		return "", vault.ErrInvalidPassword
	}

	pt, err := msgpack.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "marshalling wallet contents")
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(e.rand, salt); err != nil {
		return "", errors.Wrap(err, "reading salt")
	}

	aead, err := chacha20poly1305.NewX(e.deriveKey(pass, salt))
	if err != nil {
		return "", errors.Wrap(err, "creating aead")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(e.rand, nonce); err != nil {
		return "", errors.Wrap(err, "reading nonce")
	}

	out := make([]byte, 0, 1+saltSize+len(nonce)+len(pt)+aead.Overhead())
	out = append(out, walletVersion1)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, pt, []byte(id))

	return vault.Encode(out), nil
}

func (e *Engine) open(ctx context.Context, wallet, id, pass string) (*contents, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := vault.Encoding.DecodeString(wallet)
	if err != nil {
		return nil, errors.Wrap(vault.ErrMalformedWallet, err.Error())
	}

	headerLen := 1 + saltSize + chacha20poly1305.NonceSizeX
	if len(raw) < headerLen+chacha20poly1305.Overhead {
		return nil, errors.Wrap(vault.ErrMalformedWallet, "too short")
	}

	if raw[0] != walletVersion1 {
		return nil, errors.Wrapf(vault.ErrMalformedWallet, "unknown version %d", raw[0])
	}

	salt := raw[1 : 1+saltSize]
	nonce := raw[1+saltSize : headerLen]

	aead, err := chacha20poly1305.NewX(e.deriveKey(pass, salt))
	if err != nil {
		return nil, errors.Wrap(err, "creating aead")
	}

	pt, err := aead.Open(nil, nonce, raw[headerLen:], []byte(id))
	if err != nil {
		return nil, vault.ErrAuthentication
	}

	c := &contents{}
	if err := msgpack.Unmarshal(pt, c); err != nil {
		return nil, errors.Wrap(vault.ErrMalformedWallet, err.Error())
	}

	return c, nil
}

// find returns the first key whose id or any controller equals ref
func (c *contents) find(ref string) (*storedKey, error) {
	for _, k := range c.Keys {
		if k.ID == ref {
			return k, nil
		}

		for _, ctrl := range k.Controller {
			if ctrl == ref {
				return k, nil
			}
		}
	}

	return nil, errors.Wrap(vault.ErrKeyNotFound, ref)
}

func (c *contents) findByController(controller string) (*storedKey, error) {
	for _, k := range c.Keys {
		for _, ctrl := range k.Controller {
			if ctrl == controller {
				return k, nil
			}
		}
	}

	return nil, errors.Wrap(vault.ErrKeyNotFound, controller)
}

func (e *Engine) NewWallet(ctx context.Context, id, pass string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return e.seal(&contents{}, id, pass)
}

func (e *Engine) ChangePass(ctx context.Context, wallet, id, oldPass, newPass string) (string, error) {
	c, err := e.open(ctx, wallet, id, oldPass)
	if err != nil {
		return "", err
	}

	return e.seal(c, id, newPass)
}

func (e *Engine) ChangeID(ctx context.Context, wallet, id, newID, pass string) (string, error) {
	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	return e.seal(c, newID, pass)
}

func (e *Engine) NewKey(ctx context.Context, wallet, id, pass, keyType, controller string) (string, error) {
	kt, err := cryptography.ParseKeyType(keyType)
	if err != nil {
		return "", err
	}

	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	k, err := generateKey(kt)
	if err != nil {
		return "", err
	}

	if controller != "" {
		k.Controller = append(k.Controller, controller)
	}

	c.Keys = append(c.Keys, k)

	w, err := e.seal(c, id, pass)
	if err != nil {
		return "", err
	}

	res, err := json.Marshal(struct {
		NewEncryptedState string              `json:"newEncryptedState"`
		NewKey            vault.PublicKeyInfo `json:"newKey"`
	}{w, k.info()})
	if err != nil {
		return "", errors.Wrap(err, "marshalling new key")
	}

	return string(res), nil
}

func (e *Engine) AddContent(ctx context.Context, wallet, id, pass, content string) (string, error) {
	if !json.Valid([]byte(content)) {
		return "", errors.New("content is not valid json")
	}

	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	c.Contents = append(c.Contents, []byte(content))

	return e.seal(c, id, pass)
}

// SetKeyController replaces the controller list of the referenced key with controller
func (e *Engine) SetKeyController(ctx context.Context, wallet, id, pass, keyRef, controller string) (string, error) {
	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	k, err := c.find(keyRef)
	if err != nil {
		return "", err
	}

	k.Controller = []string{controller}

	return e.seal(c, id, pass)
}

func (e *Engine) GetKey(ctx context.Context, wallet, id, pass, keyRef string) (string, error) {
	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	k, err := c.find(keyRef)
	if err != nil {
		return "", err
	}

	return marshalString(k.info())
}

func (e *Engine) GetKeyByController(ctx context.Context, wallet, id, pass, controller string) (string, error) {
	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	k, err := c.findByController(controller)
	if err != nil {
		return "", err
	}

	return marshalString(k.info())
}

func (e *Engine) GetKeys(ctx context.Context, wallet, id, pass string) (string, error) {
	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	infos := make([]vault.PublicKeyInfo, 0, len(c.Keys))
	for _, k := range c.Keys {
		infos = append(infos, k.info())
	}

	return marshalString(infos)
}

func (e *Engine) Sign(ctx context.Context, wallet, id, pass, keyRef, data string) (string, error) {
	msg, err := vault.Decode(data)
	if err != nil {
		return "", err
	}

	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	k, err := c.find(keyRef)
	if err != nil {
		return "", err
	}

	sig, err := k.sign(msg)
	if err != nil {
		return "", err
	}

	return vault.Encode(sig), nil
}

func (e *Engine) Decrypt(ctx context.Context, wallet, id, pass, keyRef, ciphertext string) (string, error) {
	ct, err := vault.Decode(ciphertext)
	if err != nil {
		return "", err
	}

	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	k, err := c.find(keyRef)
	if err != nil {
		return "", err
	}

	pt, err := k.decrypt(ct)
	if err != nil {
		return "", err
	}

	return vault.Encode(pt), nil
}

func (e *Engine) ECDHKeyAgreement(ctx context.Context, wallet, id, pass, keyRef, pubKey string) (string, error) {
	peer, err := vault.Decode(pubKey)
	if err != nil {
		return "", err
	}

	c, err := e.open(ctx, wallet, id, pass)
	if err != nil {
		return "", err
	}

	k, err := c.find(keyRef)
	if err != nil {
		return "", err
	}

	secret, err := k.ecdh(peer)
	if err != nil {
		return "", err
	}

	return vault.Encode(secret), nil
}

func marshalString(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "marshalling key info")
	}

	return string(b), nil
}
