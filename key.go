package suspense

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key is the canonical identity of a query plus its input variables.
// Two requests with the same query and deep-equal variables produce equal
// keys regardless of variable object identity. Immutable once constructed.
type Key struct {
	query  string
	digest string
}

// NewKey derives a Key from a query identity and its variables.
// Variables are canonicalized through JSON: the value is marshaled,
// unmarshaled into a generic form and marshaled again, so a struct and a map
// with identical content agree on the digest. encoding/json writes map keys
// in sorted order, which makes the second marshal deterministic.
func NewKey(query string, variables any) (Key, error) {
	if variables == nil {
		return Key{query: query, digest: emptyDigest}, nil
	}

	raw, err := json.Marshal(variables)
	if err != nil {
		return Key{}, fmt.Errorf("canonicalize variables: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Key{}, fmt.Errorf("canonicalize variables: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return Key{}, fmt.Errorf("canonicalize variables: %w", err)
	}

	sum := sha256.Sum256(canonical)

	return Key{query: query, digest: hex.EncodeToString(sum[:])}, nil
}

// MustKey is NewKey that panics on canonicalization failure.
// Intended for variables known to be JSON-serializable (tests, examples).
func MustKey(query string, variables any) Key {
	k, err := NewKey(query, variables)
	if err != nil {
		panic(err)
	}

	return k
}

// Query returns the query identity the key was derived from.
func (k Key) Query() string { return k.query }

// String returns a stable textual form, usable as a store key.
func (k Key) String() string { return k.query + ":" + k.digest }

// IsZero reports whether the key was never derived.
func (k Key) IsZero() bool { return k == Key{} }

// emptyDigest marks "no variables"; distinct from the digest of JSON null.
const emptyDigest = "-"
