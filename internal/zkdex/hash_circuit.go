package zkdex

import (
	"github.com/consensys/gnark/frontend"
	gposeidon "github.com/vocdoni/gnark-crypto-primitives/poseidon"
)

// Poseidon hashes the given variables in-circuit. It panics on a gadget
// construction error (wrong arity), which is a compile-time bug, never a
// witness-dependent condition.
func Poseidon(api frontend.API, inputs ...frontend.Variable) frontend.Variable {
	h, err := gposeidon.Hash(api, inputs...)
	if err != nil {
		panic(err)
	}
	return h
}
