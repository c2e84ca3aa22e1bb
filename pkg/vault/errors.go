package vault

import "github.com/pkg/errors"

var (
	// ErrAuthentication is returned when the wallet cannot be opened with the
	// supplied password. Wallet state is left unchanged.
	ErrAuthentication = errors.New("wallet authentication failed")

	// ErrKeyNotFound is returned when no key in the wallet matches a key ref or controller
	ErrKeyNotFound = errors.New("key not found")

	ErrInvalidPassword      = errors.New("invalid wallet password")
	ErrInvalidLength        = errors.New("only positive values for n allowed")
	ErrUnsupportedOperation = errors.New("operation not supported by key type")
	ErrMalformedWallet      = errors.New("malformed encrypted wallet")
	ErrMalformedResponse    = errors.New("malformed engine response")
)
