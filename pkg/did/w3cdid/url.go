package w3cdid

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const Scheme = "did"

const schemePrefix = Scheme + ":"

type URL string

func (u URL) Scheme() string {
	return Scheme
}

// Parse returns the parsed URL or ErrInvalidDID when it is not a valid URL
func (u URL) Parse() (*url.URL, error) {
	uri, err := url.Parse(string(u))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDID, err.Error())
	}

	return uri, nil
}

// ParseMethod is Method for callers which need to reject malformed URLs
func (u URL) ParseMethod() (string, error) {
	uri, err := u.Parse()
	if err != nil {
		return "", err
	}

	p := strings.SplitN(uri.Opaque, ":", 2)
	return p[0], nil
}

// Method is empty for URLs which do not parse
func (u URL) Method() string {
	m, _ := u.ParseMethod()
	return m
}

func (u URL) Id() string {
	uri, err := u.Parse()
	if err != nil {
		return ""
	}

	p := strings.SplitN(uri.Opaque, ":", 2)
	if len(p) < 2 {
		return ""
	}

	return p[1]
}

func (u URL) Query() string {
	uri, err := u.Parse()
	if err != nil {
		return ""
	}

	return uri.RawQuery
}

func (u URL) Fragment() string {
	uri, err := u.Parse()
	if err != nil {
		return ""
	}

	return uri.Fragment
}

// DID strips any path, query or fragment
func (u URL) DID() string {
	s := string(u)
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		return s[:i]
	}

	return s
}

// IsDID reports whether s is already a fully qualified DID URL
func IsDID(s string) bool {
	return strings.HasPrefix(s, schemePrefix)
}

// Qualify resolves a document relative key id (e.g. "#keys-1") against base
func Qualify(base, id string) string {
	if IsDID(id) {
		return id
	}

	return base + id
}
