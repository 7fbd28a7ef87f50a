package domain

import "clientpuzzle/pkg/pow/hashcash"

// Challenge defines the puzzle entity: the payload to prove work over and the
// number of leading zero bits required.
type Challenge struct {
	Payload    []byte
	Difficulty uint32
}

// Solution defines a found nonce and the attempts spent finding it.
type Solution struct {
	Nonce    hashcash.Nonce
	Attempts uint64
}
