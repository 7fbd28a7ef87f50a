// Package gate admits callers for free while traffic stays under a global
// rate and asks for a proof of work once it goes over.
package gate

import (
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"clientpuzzle/pkg/pow/hashcash"
)

var (
	ErrProofRequired = errors.New("rate limit exceeded, proof of work required")
	ErrInvalidProof  = errors.New("invalid proof of work")
	ErrConfig        = errors.New("invalid gate configuration")
)

// Verifier is satisfied by *hashcash.Puzzle.
type Verifier interface {
	Verify(payload []byte, nonce hashcash.Nonce, cost uint32) bool
}

// Config holds the gate's free-pass rate and the cost demanded above it.
type Config struct {
	Rate  rate.Limit // free requests per second
	Burst int
	Cost  uint32
}

// Gate is safe for concurrent use. It keeps no state per caller.
type Gate struct {
	limiter  *rate.Limiter
	verifier Verifier
	cost     uint32
}

// New builds a gate verifying proofs with v, or with the default puzzle when v is nil.
func New(cfg Config, v Verifier) (*Gate, error) {
	if cfg.Rate < 0 || cfg.Burst < 0 {
		return nil, fmt.Errorf("%w: rate and burst must not be negative", ErrConfig)
	}
	if v == nil {
		v = hashcash.New()
	}
	return &Gate{
		limiter:  rate.NewLimiter(cfg.Rate, cfg.Burst),
		verifier: v,
		cost:     cfg.Cost,
	}, nil
}

// Admit lets the request through if the limiter has a token. Otherwise nonce
// must be a proof of the gate's cost over payload. A valid proof does not
// consume a token.
func (g *Gate) Admit(payload []byte, nonce *hashcash.Nonce) error {
	if g.limiter.Allow() {
		return nil
	}
	if nonce == nil {
		return ErrProofRequired
	}
	if !g.verifier.Verify(payload, *nonce, g.cost) {
		return fmt.Errorf("%w: cost %d not met", ErrInvalidProof, g.cost)
	}
	return nil
}

// Cost returns the difficulty demanded from callers over the rate.
func (g *Gate) Cost() uint32 {
	return g.cost
}
