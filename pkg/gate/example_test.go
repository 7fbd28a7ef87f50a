package gate_test

import (
	"fmt"

	"clientpuzzle/pkg/gate"
	"clientpuzzle/pkg/pow/hashcash"
)

func ExampleGate_Admit() {
	// one free request, then every caller pays cost 8
	g, err := gate.New(gate.Config{Rate: 0, Burst: 1, Cost: 8}, nil)
	if err != nil {
		panic(err)
	}
	body := []byte("POST /signup")

	fmt.Println(g.Admit(body, nil))
	fmt.Println(g.Admit(body, nil))

	nonce, err := hashcash.Search(body, g.Cost(), 1<<20)
	if err != nil {
		panic(err)
	}
	fmt.Println(g.Admit(body, &nonce))
	// Output:
	// <nil>
	// rate limit exceeded, proof of work required
	// <nil>
}
