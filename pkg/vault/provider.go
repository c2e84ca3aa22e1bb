package vault

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/cryptography"
)

var (
	_ KeyProvider = (*Provider)(nil)
)

type Option func(*Provider) error

// WithSerializedWrites makes the provider hold a per instance lock for the
// full duration of every mutating call.
func WithSerializedWrites() Option {
	return func(p *Provider) error {
		p.serialize = true
		return nil
	}
}

type walletState struct {
	blob []byte
	id   string
}

// Provider owns one encrypted wallet and mediates every operation on it through
// the wallet engine. Private key material never leaves the engine.
//
// Every mutation replaces the whole (wallet, id) pair. Unless constructed with
// WithSerializedWrites, mutating calls are not serialized: two concurrent
// mutations both start from the state current when they were called and the
// last one to finish wins, discarding the other's change. Callers that mutate
// concurrently must serialize those calls themselves.
type Provider struct {
	engine WalletEngine

	mu    sync.RWMutex
	state walletState

	serialize bool
	writeMu   sync.Mutex
}

// NewProvider wraps an already encrypted wallet whose associated data is id
func NewProvider(engine WalletEngine, encryptedWallet []byte, id string, opts ...Option) (*Provider, error) {
	if engine == nil {
		return nil, errors.New("wallet engine required")
	}

	p := &Provider{
		engine: engine,
		state:  walletState{blob: encryptedWallet, id: id},
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// LoadProvider is NewProvider for a wallet in its canonical string form
func LoadProvider(engine WalletEngine, encryptedWallet string, id string, opts ...Option) (*Provider, error) {
	blob, err := Encoding.DecodeString(encryptedWallet)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedWallet, err.Error())
	}

	return NewProvider(engine, blob, id, opts...)
}

// NewEmptyWallet asks the engine for a fresh wallet encrypted with pass
func NewEmptyWallet(ctx context.Context, engine WalletEngine, id, pass string, opts ...Option) (*Provider, error) {
	if engine == nil {
		return nil, errors.New("wallet engine required")
	}

	w, err := engine.NewWallet(ctx, id, pass)
	if err != nil {
		return nil, err
	}

	blob, err := Decode(w)
	if err != nil {
		return nil, err
	}

	logging.WithField("wallet", id).Debug("created empty wallet")

	return NewProvider(engine, blob, id, opts...)
}

func (p *Provider) snapshot() walletState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.state
}

func (p *Provider) install(s walletState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = s
}

// mutate runs fn against the current state and installs its result. The
// installed pair is never torn, but without serialization it may overwrite a
// concurrent mutation.
func (p *Provider) mutate(op string, fn func(cur walletState) (walletState, error)) error {
	if p.serialize {
		p.writeMu.Lock()
		defer p.writeMu.Unlock()
	}

	next, err := fn(p.snapshot())
	if err != nil {
		return err
	}

	p.install(next)

	logging.Entry().WithFields(logging.Fields{
		"wallet": next.id,
		"op":     op,
	}).Debug("replaced wallet state")

	return nil
}

// ID is the wallet id, bound to the ciphertext as its associated data
func (p *Provider) ID() string {
	return p.snapshot().id
}

// EncryptedWallet returns the wallet ciphertext in canonical form
func (p *Provider) EncryptedWallet() string {
	return Encode(p.snapshot().blob)
}

func (p *Provider) EncryptedWalletBytes() []byte {
	blob := p.snapshot().blob
	c := make([]byte, len(blob))
	copy(c, blob)
	return c
}

// ChangePass re-encrypts the wallet under newPass. The id is unchanged.
func (p *Provider) ChangePass(ctx context.Context, pass, newPass string) error {
	return p.mutate("changePass", func(cur walletState) (walletState, error) {
		w, err := p.engine.ChangePass(ctx, Encode(cur.blob), cur.id, pass, newPass)
		if err != nil {
			return cur, err
		}

		blob, err := Decode(w)
		if err != nil {
			return cur, err
		}

		return walletState{blob: blob, id: cur.id}, nil
	})
}

// ChangeID re-encrypts the wallet with newID as its associated data. The
// provider's id only changes once the engine has succeeded.
func (p *Provider) ChangeID(ctx context.Context, pass, newID string) error {
	return p.mutate("changeId", func(cur walletState) (walletState, error) {
		w, err := p.engine.ChangeID(ctx, Encode(cur.blob), cur.id, newID, pass)
		if err != nil {
			return cur, err
		}

		blob, err := Decode(w)
		if err != nil {
			return cur, err
		}

		return walletState{blob: blob, id: newID}, nil
	})
}

// NewKeyPair generates a key of keyType inside the wallet. controller should be
// unique within the wallet; an empty controller adds none.
func (p *Provider) NewKeyPair(ctx context.Context, pass string, keyType cryptography.KeyType, controller string) (*PublicKeyInfo, error) {
	if !keyType.Valid() {
		return nil, errors.Wrapf(cryptography.ErrUnknownKeyType, "%q", keyType.String())
	}

	var key PublicKeyInfo

	err := p.mutate("newKeyPair", func(cur walletState) (walletState, error) {
		res, err := p.engine.NewKey(ctx, Encode(cur.blob), cur.id, pass, keyType.String(), controller)
		if err != nil {
			return cur, err
		}

		r := &addKeyResult{}
		if err := unmarshalResponse(res, r); err != nil {
			return cur, err
		}

		blob, err := Decode(r.NewEncryptedState)
		if err != nil {
			return cur, err
		}

		key = r.NewKey

		return walletState{blob: blob, id: cur.id}, nil
	})
	if err != nil {
		return nil, err
	}

	return &key, nil
}

// AddContent imports an arbitrary JSON content item into the wallet
func (p *Provider) AddContent(ctx context.Context, pass string, content interface{}) error {
	c, err := json.Marshal(content)
	if err != nil {
		return errors.Wrap(err, "marshalling content")
	}

	return p.mutate("addContent", func(cur walletState) (walletState, error) {
		w, err := p.engine.AddContent(ctx, Encode(cur.blob), cur.id, pass, string(c))
		if err != nil {
			return cur, err
		}

		blob, err := Decode(w)
		if err != nil {
			return cur, err
		}

		return walletState{blob: blob, id: cur.id}, nil
	})
}

func (p *Provider) SetKeyController(ctx context.Context, pass, keyRef, controller string) error {
	return p.mutate("setKeyController", func(cur walletState) (walletState, error) {
		w, err := p.engine.SetKeyController(ctx, Encode(cur.blob), cur.id, pass, keyRef, controller)
		if err != nil {
			return cur, err
		}

		blob, err := Decode(w)
		if err != nil {
			return cur, err
		}

		return walletState{blob: blob, id: cur.id}, nil
	})
}

func (p *Provider) PubKey(ctx context.Context, pass, keyRef string) (*PublicKeyInfo, error) {
	s := p.snapshot()

	res, err := p.engine.GetKey(ctx, Encode(s.blob), s.id, pass, keyRef)
	if err != nil {
		return nil, err
	}

	return decodeKey(res)
}

// PubKeyByController returns the first key listing controller
func (p *Provider) PubKeyByController(ctx context.Context, pass, controller string) (*PublicKeyInfo, error) {
	s := p.snapshot()

	res, err := p.engine.GetKeyByController(ctx, Encode(s.blob), s.id, pass, controller)
	if err != nil {
		return nil, err
	}

	return decodeKey(res)
}

func (p *Provider) PubKeys(ctx context.Context, pass string) ([]PublicKeyInfo, error) {
	s := p.snapshot()

	res, err := p.engine.GetKeys(ctx, Encode(s.blob), s.id, pass)
	if err != nil {
		return nil, err
	}

	keys := []PublicKeyInfo{}
	if err := unmarshalResponse(res, &keys); err != nil {
		return nil, err
	}

	if keys == nil {
		keys = []PublicKeyInfo{}
	}

	return keys, nil
}

func (p *Provider) Sign(ctx context.Context, pass, keyRef string, data []byte) ([]byte, error) {
	s := p.snapshot()

	res, err := p.engine.Sign(ctx, Encode(s.blob), s.id, pass, keyRef, Encode(data))
	if err != nil {
		return nil, err
	}

	return Decode(res)
}

func (p *Provider) Decrypt(ctx context.Context, pass, keyRef string, data []byte) ([]byte, error) {
	s := p.snapshot()

	res, err := p.engine.Decrypt(ctx, Encode(s.blob), s.id, pass, keyRef, Encode(data))
	if err != nil {
		return nil, err
	}

	return Decode(res)
}

func (p *Provider) ECDHKeyAgreement(ctx context.Context, pass, keyRef string, pubKey []byte) ([]byte, error) {
	s := p.snapshot()

	res, err := p.engine.ECDHKeyAgreement(ctx, Encode(s.blob), s.id, pass, keyRef, Encode(pubKey))
	if err != nil {
		return nil, err
	}

	return Decode(res)
}

func decodeKey(res string) (*PublicKeyInfo, error) {
	k := &PublicKeyInfo{}
	if err := unmarshalResponse(res, k); err != nil {
		return nil, err
	}

	return k, nil
}

// unmarshalResponse keeps key type decode failures distinguishable from
// otherwise malformed engine output
func unmarshalResponse(res string, v interface{}) error {
	err := json.Unmarshal([]byte(res), v)
	if err == nil {
		return nil
	}

	if errors.Is(err, cryptography.ErrUnknownKeyType) {
		return err
	}

	return errors.Wrap(ErrMalformedResponse, err.Error())
}
