package gadgets

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
)

func init() {
	solver.RegisterHint(divModHint)
}

// divModHint computes the integer quotient and remainder of ins[0] / ins[1].
func divModHint(_ *big.Int, ins, outs []*big.Int) error {
	if len(ins) != 2 || len(outs) != 2 {
		return errors.New("divModHint: expected 2 inputs and 2 outputs")
	}
	if ins[1].Sign() == 0 {
		return errors.New("divModHint: division by zero")
	}
	outs[0].DivMod(ins[0], ins[1], outs[1])
	return nil
}

// CheckedDivMod returns a witness-supplied quotient and remainder for a/b and
// constrains them: b != 0, a == q*b + r, r < b, q fits qBits and r fits rBits.
// The divisor must fit rBits so the remainder comparison stays bounded.
func CheckedDivMod(api frontend.API, a, b frontend.Variable, qBits, rBits int) (q, r frontend.Variable, err error) {
	out, err := api.Compiler().NewHint(divModHint, 2, a, b)
	if err != nil {
		return nil, nil, err
	}
	q, r = out[0], out[1]

	api.AssertIsDifferent(b, 0)
	api.AssertIsEqual(a, api.Add(api.Mul(q, b), r))
	api.ToBinary(q, qBits)
	api.ToBinary(r, rBits)
	api.AssertIsEqual(LessThan(api, r, b, rBits+1), 1)
	return q, r, nil
}
