package argon2

/*
Key Concepts of the Argon2 combiner:

Memory-Hard Function:
Argon2 is "memory-hard": each evaluation needs a configurable amount of memory, which blunts the
advantage of GPUs and ASICs over ordinary CPUs. Plugged into the puzzle as the hash combiner, every
search attempt costs memory as well as time.

Difficulty:
The leading-zero cost of the puzzle still decides how many attempts are expected. The Argon2
parameters decide how expensive each attempt is:
Memory cost: KiB of memory used per evaluation.
Time cost: number of passes over that memory.
Parallelism (threads): lanes computed per evaluation.

Verification:
Verification is a single evaluation, so it is as expensive as one search attempt. Keep parameters
small enough that a verifier can afford one evaluation per request.

Framing:
The password input is nonce||payload, the same framing as the default BLAKE3 combiner. The salt is
a fixed domain separator, not a secret.
*/

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"

	"clientpuzzle/pkg/pow/hashcash"
)

const (
	// Defaults for Argon2
	DefaultTime    = 1        // Number of passes (time cost)
	DefaultMemory  = 8 * 1024 // Memory usage in KiB (8MB)
	DefaultThreads = 1        // Number of lanes

	maxMemory = 4 * 1024 * 1024 // 4GB
)

var salt = []byte("clientpuzzle/argon2id/v1")

var ErrParams = errors.New("argon2 parameters out of acceptable range")

// Params are the Argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams returns parameters suited to interactive solving.
func DefaultParams() Params {
	return Params{
		Time:    DefaultTime,
		Memory:  DefaultMemory,
		Threads: DefaultThreads,
	}
}

// Argon2 is a hashcash.Hasher backed by Argon2id.
type Argon2 struct {
	params Params
}

// NewArgon2 validates params and returns the combiner.
func NewArgon2(params Params) (*Argon2, error) {
	if params.Time < 1 {
		return nil, fmt.Errorf("%w: time must be at least 1", ErrParams)
	}
	if params.Threads < 1 {
		return nil, fmt.Errorf("%w: threads must be at least 1", ErrParams)
	}
	// argon2 needs 8 KiB of memory per lane
	if params.Memory < 8*uint32(params.Threads) || params.Memory > maxMemory {
		return nil, fmt.Errorf("%w: memory must be between %d and %d KiB", ErrParams, 8*uint32(params.Threads), maxMemory)
	}
	return &Argon2{params: params}, nil
}

// Digest derives a 32-byte key from nonce||payload.
func (a *Argon2) Digest(nonce hashcash.Nonce, payload []byte) hashcash.Digest {
	input := make([]byte, 0, hashcash.NonceSize+len(payload))
	input = append(input, nonce[:]...)
	input = append(input, payload...)

	var d hashcash.Digest
	copy(d[:], argon2.IDKey(input, salt, a.params.Time, a.params.Memory, a.params.Threads, hashcash.DigestSize))
	return d
}

// GetParams returns the parameters the combiner was built with.
func (a *Argon2) GetParams() Params {
	return a.params
}
