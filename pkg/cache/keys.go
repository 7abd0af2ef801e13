package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"hash"
)

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the graph with the given
	// content hash, computed with the options with the given hash.
	LayoutKey(graphHash, optionsHash string) string
}

// KeyerFunc adapts an ordinary function to [Keyer].
type KeyerFunc func(graphHash, optionsHash string) string

// LayoutKey calls f.
func (f KeyerFunc) LayoutKey(graphHash, optionsHash string) string { return f(graphHash, optionsHash) }

// DefaultKeyer produces keys of the form "layout:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(graphHash, optionsHash string) string {
	h := sha256.New()
	writeFramed(h, graphHash)
	writeFramed(h, optionsHash)
	return "layout:" + hex.EncodeToString(h.Sum(nil))
}

// writeFramed writes s preceded by its length, so ("ab","c") and
// ("a","bc") hash differently.
func writeFramed(h hash.Hash, s string) {
	var n [binary.MaxVarintLen64]byte
	h.Write(n[:binary.PutUvarint(n[:], uint64(len(s)))])
	h.Write([]byte(s))
}

// WithPrefix namespaces the keys of k under prefix, so several deployments
// can share one backend. A nil k means [DefaultKeyer].
//
//	keyer := cache.WithPrefix(nil, "nestlayout:v1:")
func WithPrefix(k Keyer, prefix string) Keyer {
	if k == nil {
		k = DefaultKeyer{}
	}
	return KeyerFunc(func(graphHash, optionsHash string) string {
		return prefix + k.LayoutKey(graphHash, optionsHash)
	})
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the hex SHA-256 of the JSON encoding of v. Map keys are
// sorted by the encoder, so equal values hash equally.
func HashJSON(v any) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
