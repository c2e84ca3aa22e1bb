package cryptography

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/sha256"
	"io"

	ethCrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const (
	secp256k1SignatureLength            = 64
	secp256k1RecoverableSignatureLength = 65
)

var (
	ErrInvalidPublicKey      = errors.New("invalid public key")
	ErrInvalidSignatureShape = errors.New("invalid signature length")
)

type Secp256k1PrivateKey struct {
	*ecdsa.PrivateKey
}

func NewEcdsaSecp256k1PrivateKey() (*Secp256k1PrivateKey, error) {
	pk, err := ethCrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generating ecdsa key")
	}

	return &Secp256k1PrivateKey{pk}, nil
}

func NewSecp256k1PrivateKeyFromBytes(d []byte) (*Secp256k1PrivateKey, error) {
	pk, err := ethCrypto.ToECDSA(d)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling ecdsa private key")
	}

	return &Secp256k1PrivateKey{pk}, nil
}

func (p *Secp256k1PrivateKey) Bytes() []byte {
	return ethCrypto.FromECDSA(p.PrivateKey)
}

// Sign hashes msg with SHA-256 and returns the 65 byte [R || S || V] recoverable signature
func (p *Secp256k1PrivateKey) Sign(_ io.Reader, msg []byte, _ crypto.SignerOpts) ([]byte, error) {
	h := sha256.Sum256(msg)
	return ethCrypto.Sign(h[:], p.PrivateKey)
}

// SignCompact is Sign without the recovery byte
func (p *Secp256k1PrivateKey) SignCompact(msg []byte) ([]byte, error) {
	sig, err := p.Sign(nil, msg, nil)
	if err != nil {
		return nil, err
	}

	return sig[:secp256k1SignatureLength], nil
}

func (p *Secp256k1PrivateKey) Public() crypto.PublicKey {
	return &Secp256k1PublicKey{p.PublicKey}
}

// NewSecp256k1PublicKey accepts both the compressed and uncompressed SEC1 forms
func NewSecp256k1PublicKey(d []byte) (*Secp256k1PublicKey, error) {
	if len(d) == 33 {
		pub, err := ethCrypto.DecompressPubkey(d)
		if err != nil {
			return nil, errors.Wrap(err, "decompressing ecdsa pub key")
		}
		return &Secp256k1PublicKey{*pub}, nil
	}

	pub, err := ethCrypto.UnmarshalPubkey(d)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling ecdsa pub key")
	}

	return &Secp256k1PublicKey{*pub}, nil
}

type Secp256k1PublicKey struct {
	ecdsa.PublicKey
}

// Bytes returns the 33 byte compressed form
func (p *Secp256k1PublicKey) Bytes() []byte {
	return ethCrypto.CompressPubkey(&p.PublicKey)
}

// Verify checks a 64 byte signature, or a 65 byte one with its recovery byte ignored
func (p *Secp256k1PublicKey) Verify(sig, msg []byte) (bool, error) {
	switch len(sig) {
	case secp256k1SignatureLength:
	case secp256k1RecoverableSignatureLength:
		sig = sig[:secp256k1SignatureLength]
	default:
		return false, ErrInvalidSignatureShape
	}

	h := sha256.Sum256(msg)

	return ethCrypto.VerifySignature(p.Bytes(), h[:], sig), nil
}

// VerifyRecoverable recovers the signer from a 65 byte signature and compares it to p
func (p *Secp256k1PublicKey) VerifyRecoverable(sig, msg []byte) (bool, error) {
	if len(sig) != secp256k1RecoverableSignatureLength {
		return false, ErrInvalidSignatureShape
	}

	h := sha256.Sum256(msg)

	recovered, err := ethCrypto.SigToPub(h[:], sig)
	if err != nil {
		return false, nil
	}

	return bytes.Equal(ethCrypto.CompressPubkey(recovered), p.Bytes()), nil
}

func ValidateEcdsaSecp256k1(pkbytes []byte, signature []byte, msg []byte) (bool, error) {
	pub, err := NewSecp256k1PublicKey(pkbytes)
	if err != nil {
		return false, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}

	return pub.Verify(signature, msg)
}

func ValidateEcdsaSecp256k1Recovery(pkbytes []byte, signature []byte, msg []byte) (bool, error) {
	pub, err := NewSecp256k1PublicKey(pkbytes)
	if err != nil {
		return false, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}

	return pub.VerifyRecoverable(signature, msg)
}
