// crypto.go - native Poseidon hashing and field randomness.
//
// The helpers here are the off-circuit mirrors of the gadgets in
// hash_circuit.go; both sides use the circomlib Poseidon parameterization so
// witness values computed natively satisfy the in-circuit constraints.

package zkdex

import (
	"fmt"
	"math/big"

	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

// HashFields computes the Poseidon hash of the given field elements.
func HashFields(inputs ...*big.Int) (*big.Int, error) {
	out, err := poseidon.Hash(inputs)
	if err != nil {
		return nil, fmt.Errorf("poseidon hash: %w", err)
	}
	return out, nil
}

// mustHash is HashFields for call sites with fixed arity, where the only
// possible error is a programming mistake.
func mustHash(inputs ...*big.Int) *big.Int {
	out, err := poseidon.Hash(inputs)
	if err != nil {
		panic(err)
	}
	return out
}

// ParseFieldElements decodes decimal-encoded field elements as received on
// the wire, rejecting malformed values before any constraint work begins.
func ParseFieldElements(values []string) ([]*big.Int, error) {
	out := make([]*big.Int, len(values))
	for i, s := range values {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("public input %d is not a decimal field element", i)
		}
		out[i] = v
	}
	return out, nil
}

// RandomField returns a uniformly random BN254 scalar, used for note salts.
func RandomField() *big.Int {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		panic(err)
	}
	return e.BigInt(new(big.Int))
}
