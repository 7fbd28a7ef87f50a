package hashcash

import "github.com/zeebo/blake3"

// Hasher combines a nonce and a payload into a digest. Implementations must
// hash the nonce bytes first and the payload bytes second.
type Hasher interface {
	Digest(nonce Nonce, payload []byte) Digest
}

// Blake3 is the default combiner: BLAKE3-256 over nonce||payload.
type Blake3 struct{}

func (Blake3) Digest(nonce Nonce, payload []byte) Digest {
	var d Digest
	h := blake3.New()
	_, _ = h.Write(nonce[:])
	_, _ = h.Write(payload)
	h.Sum(d[:0])
	return d
}
