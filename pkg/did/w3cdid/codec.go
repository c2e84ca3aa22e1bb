package w3cdid

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	jose "gopkg.in/square/go-jose.v2"

	"github.com/tcfw/didvault/pkg/cryptography"
)

var (
	ErrUnsupportedKeyEncoding = errors.New("unsupported public key encoding")
)

type documentJSON struct {
	Context            json.RawMessage      `json:"@context,omitempty"`
	ID                 string               `json:"id"`
	PublicKey          []PublicKeySection   `json:"publicKey,omitempty"`
	VerificationMethod []PublicKeySection   `json:"verificationMethod,omitempty"`
	Service            []Service            `json:"service,omitempty"`
	Created            string               `json:"created,omitempty"`
	Proof              *LinkedDataSignature `json:"proof,omitempty"`
}

// MarshalJSON writes the JSON-LD form. A single context is written as a string
// and keys are always written under publicKey.
func (d Document) MarshalJSON() ([]byte, error) {
	w := documentJSON{
		ID:        d.ID,
		PublicKey: d.PublicKey,
		Service:   d.Service,
		Proof:     d.Proof,
	}

	var err error
	switch len(d.Context) {
	case 0:
		w.Context, err = json.Marshal(DefaultContext)
	case 1:
		w.Context, err = json.Marshal(d.Context[0])
	default:
		w.Context, err = json.Marshal(d.Context)
	}
	if err != nil {
		return nil, errors.Wrap(err, "marshalling context")
	}

	if d.Created != nil {
		w.Created = d.Created.UTC().Format(time.RFC3339Nano)
	}

	return json.Marshal(w)
}

// UnmarshalJSON reads the JSON-LD form. verificationMethod entries are appended
// after publicKey entries; a string context becomes a single element list.
func (d *Document) UnmarshalJSON(b []byte) error {
	w := documentJSON{}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	ctx, err := decodeContext(w.Context)
	if err != nil {
		return err
	}

	var created *time.Time
	if w.Created != "" {
		t, err := time.Parse(time.RFC3339Nano, w.Created)
		if err != nil {
			return errors.Wrap(err, "parsing created")
		}
		created = &t
	}

	keys := w.PublicKey
	if len(w.VerificationMethod) > 0 {
		keys = append(keys, w.VerificationMethod...)
	}

	*d = Document{
		Context:   ctx,
		ID:        w.ID,
		PublicKey: keys,
		Service:   w.Service,
		Created:   created,
		Proof:     w.Proof,
	}

	return nil
}

func decodeContext(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	// context entries may also be objects; only their string entries are kept
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(err, "decoding @context")
	}

	ctx := make([]string, 0, len(entries))
	for _, e := range entries {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			ctx = append(ctx, s)
		}
	}

	return ctx, nil
}

type publicKeySectionJSON struct {
	ID                 string          `json:"id"`
	Type               string          `json:"type"`
	Controller         string          `json:"controller,omitempty"`
	PublicKeyHex       string          `json:"publicKeyHex,omitempty"`
	PublicKeyBase58    string          `json:"publicKeyBase58,omitempty"`
	PublicKeyMultibase string          `json:"publicKeyMultibase,omitempty"`
	PublicKeyJwk       json.RawMessage `json:"publicKeyJwk,omitempty"`
}

func (p PublicKeySection) MarshalJSON() ([]byte, error) {
	return json.Marshal(publicKeySectionJSON{
		ID:           p.ID,
		Type:         p.Type,
		Controller:   p.Controller,
		PublicKeyHex: p.PublicKeyHex,
	})
}

// UnmarshalJSON takes publicKeyHex as is, otherwise converts publicKeyBase58,
// publicKeyMultibase or an Ed25519 publicKeyJwk to hex.
func (p *PublicKeySection) UnmarshalJSON(b []byte) error {
	w := publicKeySectionJSON{}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	keyHex := w.PublicKeyHex

	switch {
	case keyHex != "":
	case w.PublicKeyBase58 != "":
		raw, err := base58.Decode(w.PublicKeyBase58)
		if err != nil {
			return errors.Wrap(err, "decoding publicKeyBase58")
		}
		keyHex = hex.EncodeToString(raw)
	case w.PublicKeyMultibase != "":
		raw, err := cryptography.DecodeMultibase(w.PublicKeyMultibase)
		if err != nil {
			return errors.Wrap(err, "decoding publicKeyMultibase")
		}
		keyHex = hex.EncodeToString(raw)
	case len(w.PublicKeyJwk) > 0:
		raw, err := decodeJwk(w.PublicKeyJwk)
		if err != nil {
			return err
		}
		keyHex = hex.EncodeToString(raw)
	}

	*p = PublicKeySection{
		ID:           w.ID,
		Type:         w.Type,
		Controller:   w.Controller,
		PublicKeyHex: keyHex,
	}

	return nil
}

func decodeJwk(raw json.RawMessage) ([]byte, error) {
	jwk := jose.JSONWebKey{}
	if err := jwk.UnmarshalJSON(raw); err != nil {
		return nil, errors.Wrap(err, "decoding publicKeyJwk")
	}

	switch k := jwk.Key.(type) {
	case ed25519.PublicKey:
		return []byte(k), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedKeyEncoding, "jwk key %T", k)
	}
}

type linkedDataSignatureJSON struct {
	Type           string `json:"type"`
	Created        string `json:"created"`
	Creator        string `json:"creator"`
	Nonce          string `json:"nonce"`
	SignatureValue string `json:"signatureValue"`
	ID             string `json:"id,omitempty"`
}

func (l LinkedDataSignature) MarshalJSON() ([]byte, error) {
	w := linkedDataSignatureJSON{
		Type:           l.Type,
		Creator:        l.Creator,
		Nonce:          l.Nonce,
		SignatureValue: l.SignatureValue,
		ID:             l.ID,
	}

	if !l.Created.IsZero() {
		w.Created = l.Created.UTC().Format(time.RFC3339Nano)
	}

	return json.Marshal(w)
}

func (l *LinkedDataSignature) UnmarshalJSON(b []byte) error {
	w := linkedDataSignatureJSON{}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var created time.Time
	if w.Created != "" {
		t, err := time.Parse(time.RFC3339Nano, w.Created)
		if err != nil {
			return errors.Wrap(err, "parsing proof created")
		}
		created = t
	}

	*l = LinkedDataSignature{
		Type:           w.Type,
		Created:        created,
		Creator:        w.Creator,
		Nonce:          w.Nonce,
		SignatureValue: w.SignatureValue,
		ID:             w.ID,
	}

	return nil
}
