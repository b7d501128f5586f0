package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// String returns the lowercase hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Combine строит составной хеш: H( content || part1 || part2 ... ).
// Порядок parts должен быть детерминированным.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint hashes a list of option strings. Each part is terminated by a
// zero byte so that ("ab","c") and ("a","bc") differ.
func Fingerprint(parts ...string) Digest {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
