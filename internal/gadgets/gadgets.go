// Package gadgets provides the field and range primitives shared by all
// circuits in this module: bit decomposition, bounded comparators, safe
// arithmetic, boolean selection and variable-index array access.
//
// Comparators operate on bounded values. Callers must guarantee (or have the
// circuit enforce) that operands fit the declared bit width, otherwise the
// comparison wraps around the field modulus and is meaningless.
package gadgets

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// BitDecompose returns k boolean-constrained bits reconstructing x.
// The circuit becomes unsatisfiable if x >= 2^k.
func BitDecompose(api frontend.API, x frontend.Variable, k int) []frontend.Variable {
	return api.ToBinary(x, k)
}

// IsEqual returns 1 if a == b, 0 otherwise.
func IsEqual(api frontend.API, a, b frontend.Variable) frontend.Variable {
	return api.IsZero(api.Sub(a, b))
}

// LessThan returns 1 if a < b, 0 otherwise. Both operands must fit k bits.
// The k+1-bit decomposition of a-b+2^k makes the top bit the borrow flag.
func LessThan(api frontend.API, a, b frontend.Variable, k int) frontend.Variable {
	shift := new(big.Int).Lsh(big.NewInt(1), uint(k))
	d := api.Add(api.Sub(a, b), shift)
	bits := api.ToBinary(d, k+1)
	return api.Sub(1, bits[k])
}

// GreaterEqThan returns 1 if a >= b, 0 otherwise. Both operands must fit k bits.
func GreaterEqThan(api frontend.API, a, b frontend.Variable, k int) frontend.Variable {
	return api.Sub(1, LessThan(api, a, b, k))
}

// Select returns a when sel == 0 and b when sel == 1.
// sel must be boolean-constrained by the caller.
func Select(api frontend.API, sel, a, b frontend.Variable) frontend.Variable {
	return api.Add(a, api.Mul(sel, api.Sub(b, a)))
}

// SafeAdd returns a+b and asserts the sum fits k bits and did not wrap
// below a. Operands must themselves fit k bits.
func SafeAdd(api frontend.API, a, b frontend.Variable, k int) frontend.Variable {
	sum := api.Add(a, b)
	api.AssertIsEqual(GreaterEqThan(api, sum, a, k+1), 1)
	api.ToBinary(sum, k)
	return sum
}

// SafeSub returns a-b and asserts a >= b over k-bit values, so the
// difference cannot underflow into a huge field element.
func SafeSub(api frontend.API, a, b frontend.Variable, k int) frontend.Variable {
	api.AssertIsEqual(GreaterEqThan(api, a, b, k), 1)
	return api.Sub(a, b)
}

// SafeMul returns a*b, asserts the product fits k bits, and cross-checks the
// multiplication by dividing the product back by b: when b != 0 the witness
// quotient must equal a with a zero remainder. A zero divisor skips the
// division consistency check (0*a == 0 needs none).
func SafeMul(api frontend.API, a, b frontend.Variable, k int) (frontend.Variable, error) {
	prod := api.Mul(a, b)
	api.ToBinary(prod, k)

	bNonZero := api.Sub(1, api.IsZero(b))
	// substitute divisor 1 when b == 0 so the hint stays well-defined
	divisor := api.Add(b, api.Sub(1, bNonZero))
	q, r, err := CheckedDivMod(api, prod, divisor, k, k)
	if err != nil {
		return nil, err
	}
	api.AssertIsEqual(api.Mul(bNonZero, r), 0)
	api.AssertIsEqual(api.Mul(bNonZero, api.Sub(q, a)), 0)
	return prod, nil
}
