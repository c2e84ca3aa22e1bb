package resolver

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/pkg/did"
	"github.com/tcfw/didvault/pkg/did/w3cdid"
)

var (
	_ did.Resolver = (*Resolver)(nil)

	ErrUnknownMethod = errors.New("unknown did method")
)

// Resolver dispatches to a method specific resolver by DID method
type Resolver struct {
	methods map[string]did.Resolver
}

func New(methods ...did.Resolver) *Resolver {
	r := &Resolver{methods: make(map[string]did.Resolver, len(methods))}
	for _, m := range methods {
		r.methods[m.Method()] = m
	}

	return r
}

// Method is empty; the resolver accepts every registered method
func (r *Resolver) Method() string {
	return ""
}

// Resolve resolves a public DID via any supported DID method
func (r *Resolver) Resolve(ctx context.Context, id string) (*did.Identity, error) {
	if !w3cdid.IsDID(id) {
		return nil, errors.Wrapf(w3cdid.ErrInvalidDID, "%q", id)
	}

	u := w3cdid.URL(id)
	method, err := u.ParseMethod()
	if err != nil {
		return nil, err
	}

	m, ok := r.methods[method]
	if !ok {
		return nil, errors.Wrap(ErrUnknownMethod, method)
	}

	return m.Resolve(ctx, u.DID())
}
