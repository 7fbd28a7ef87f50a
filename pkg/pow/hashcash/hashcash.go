package hashcash

/*
	Key Concepts of the client puzzle:

	Challenge-Response Mechanism:
	The verifier hands out (or agrees on) a payload. The prover has to find a short random
	nonce such that the hash of the nonce followed by the payload starts with at least
	cost zero bits. Finding one takes about 2^cost attempts, checking one takes a single hash.

	Hash Function:
	BLAKE3 with a 256-bit output is the default. Input framing is fixed: nonce first, payload
	second. Any other Hasher must keep that framing or proofs will not validate elsewhere.

	Difficulty:
	Cost is counted in leading zero bits of the digest. There is no upper bound: a cost above
	the digest length can never be met and simply runs the search out of budget.

	Search:
	Every attempt draws a fresh nonce from the random source. There is no counter-based walk
	over the nonce space. The meter caps the number of attempts, so the worst case is bounded
	even though the expected work is only probabilistic.

	Pros and Cons:

	Pros:
	Stateless on the verifier side, cheap to check.
	Scalable by adjusting the cost.

	Cons:
	Expected work doubles per bit of cost, so the knob is coarse.
	Replay prevention is left to the caller.
*/

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/bits"
)

const (
	NonceSize  = 10
	DigestSize = 32
	MaxCost    = DigestSize * 8 // Costs above this never succeed
)

var (
	ErrRandomSource    = errors.New("random source failed")
	ErrBudgetExhausted = errors.New("search budget exhausted")
	ErrNonceFormat     = errors.New("invalid nonce format")
)

// Nonce is the fixed-size value prepended to the payload.
type Nonce [NonceSize]byte

func (n Nonce) String() string {
	return hex.EncodeToString(n[:])
}

// ParseNonce decodes a hex encoded nonce as produced by Nonce.String.
func ParseNonce(s string) (Nonce, error) {
	var n Nonce
	raw, err := hex.DecodeString(s)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrNonceFormat, err)
	}
	if len(raw) != NonceSize {
		return n, fmt.Errorf("%w: expected %d bytes, got %d", ErrNonceFormat, NonceSize, len(raw))
	}
	copy(n[:], raw)
	return n, nil
}

// Digest is the output of a Hasher.
type Digest [DigestSize]byte

// Solution is a nonce together with the number of digests it took to find it.
type Solution struct {
	Nonce    Nonce
	Attempts uint64
}

// Puzzle searches for and verifies proofs with a fixed hasher and random source.
// A Puzzle holds no mutable state of its own, but its random source is shared
// by every search run through it.
type Puzzle struct {
	random io.Reader
	hasher Hasher
}

type Option func(*Puzzle)

// WithRandom sets the source nonces are drawn from.
func WithRandom(r io.Reader) Option {
	return func(p *Puzzle) {
		p.random = r
	}
}

// WithHasher replaces the default BLAKE3 combiner.
func WithHasher(h Hasher) Option {
	return func(p *Puzzle) {
		p.hasher = h
	}
}

// New returns a Puzzle using crypto/rand and BLAKE3 unless overridden.
func New(opts ...Option) *Puzzle {
	p := &Puzzle{
		random: rand.Reader,
		hasher: Blake3{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultPuzzle = New()

// Search finds a nonce for payload with the default puzzle.
func Search(payload []byte, cost, meter uint32) (Nonce, error) {
	return defaultPuzzle.Search(payload, cost, meter)
}

// Verify checks a nonce against payload with the default puzzle.
func Verify(payload []byte, nonce Nonce, cost uint32) bool {
	return defaultPuzzle.Verify(payload, nonce, cost)
}

// Search repeatedly draws random nonces until one hashes with at least cost
// leading zero bits. It gives up with ErrBudgetExhausted once more than meter
// attempts have failed, and with ErrRandomSource if the random source errors.
func (p *Puzzle) Search(payload []byte, cost, meter uint32) (Nonce, error) {
	sol, err := p.Solve(payload, cost, meter)
	if err != nil {
		return Nonce{}, err
	}
	return sol.Nonce, nil
}

// Solve is Search that also reports how many digests were computed.
func (p *Puzzle) Solve(payload []byte, cost, meter uint32) (Solution, error) {
	var (
		nonce   Nonce
		counter uint64
	)
	for {
		if _, err := io.ReadFull(p.random, nonce[:]); err != nil {
			return Solution{}, fmt.Errorf("%w: %w", ErrRandomSource, err)
		}
		if p.satisfies(payload, nonce, cost) {
			return Solution{Nonce: nonce, Attempts: counter + 1}, nil
		}
		counter++
		if counter > uint64(meter) {
			return Solution{}, fmt.Errorf("%w: %d attempts at cost %d", ErrBudgetExhausted, counter, cost)
		}
	}
}

// Verify reports whether nonce is a proof of at least cost for payload.
func (p *Puzzle) Verify(payload []byte, nonce Nonce, cost uint32) bool {
	return p.satisfies(payload, nonce, cost)
}

func (p *Puzzle) satisfies(payload []byte, nonce Nonce, cost uint32) bool {
	digest := p.hasher.Digest(nonce, payload)
	return LeadingZeros(digest[:]) >= cost
}

// LeadingZeros counts zero bits from the most significant bit of b[0] up to
// the first set bit or the end of b.
func LeadingZeros(b []byte) uint32 {
	var count uint32
	for _, c := range b {
		lz := uint32(bits.LeadingZeros8(c))
		count += lz
		if lz < 8 {
			break
		}
	}
	return count
}
