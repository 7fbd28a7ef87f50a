package argon2

import (
	"errors"
	"math/rand/v2"
	"testing"

	"clientpuzzle/pkg/pow/hashcash"
)

// cheap keeps each evaluation around a millisecond.
var cheap = Params{Time: 1, Memory: 64, Threads: 1}

func TestNewArgon2(t *testing.T) {
	a, err := NewArgon2(DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.GetParams() != DefaultParams() {
		t.Fatalf("expected params %+v, got %+v", DefaultParams(), a.GetParams())
	}

	invalid := []Params{
		{Time: 0, Memory: 64, Threads: 1},
		{Time: 1, Memory: 64, Threads: 0},
		{Time: 1, Memory: 7, Threads: 1},
		{Time: 1, Memory: 16, Threads: 4},
		{Time: 1, Memory: maxMemory + 1, Threads: 1},
	}
	for _, p := range invalid {
		if _, err := NewArgon2(p); !errors.Is(err, ErrParams) {
			t.Errorf("NewArgon2(%+v): expected ErrParams, got %v", p, err)
		}
	}
}

func TestDigestDeterministic(t *testing.T) {
	a, err := NewArgon2(cheap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nonce := hashcash.Nonce{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	payload := []byte("payload")
	if a.Digest(nonce, payload) != a.Digest(nonce, payload) {
		t.Fatalf("digest is not deterministic")
	}

	other := nonce
	other[0] ^= 0xff
	if a.Digest(nonce, payload) == a.Digest(other, payload) {
		t.Fatalf("different nonces produced the same digest")
	}

	if a.Digest(nonce, payload) == (hashcash.Blake3{}).Digest(nonce, payload) {
		t.Fatalf("argon2 digest must differ from blake3")
	}
}

func TestSearchWithArgon2(t *testing.T) {
	a, err := NewArgon2(cheap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var seed [32]byte
	seed[0] = 42
	p := hashcash.New(hashcash.WithHasher(a), hashcash.WithRandom(rand.NewChaCha8(seed)))

	payload := []byte("challenge")
	nonce, err := p.Search(payload, 4, 1<<12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Verify(payload, nonce, 4) {
		t.Fatalf("expected valid solution but verification failed")
	}

	d := a.Digest(nonce, payload)
	if hashcash.LeadingZeros(d[:]) < 4 {
		t.Fatalf("digest has too few leading zeros")
	}
}
