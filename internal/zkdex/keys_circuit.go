package zkdex

import (
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"

	"github.com/tokamak-network/nftgame-zk-dex-sub001/internal/gadgets"
)

// DerivePk recomputes the Baby Jubjub public key sk*G inside the circuit.
func DerivePk(api frontend.API, sk frontend.Variable) (twistededwards.Point, error) {
	curve, err := twistededwards.NewEdCurve(api, tedwards.BN254)
	if err != nil {
		return twistededwards.Point{}, err
	}
	base := twistededwards.Point{
		X: curve.Params().Base[0],
		Y: curve.Params().Base[1],
	}
	return curve.ScalarMul(base, sk), nil
}

// OwnershipFlag returns 1 when pk was derived from sk and 0 otherwise.
// Both coordinates must match; a single-axis collision is not accepted.
func OwnershipFlag(api frontend.API, pkX, pkY, sk frontend.Variable) (frontend.Variable, error) {
	derived, err := DerivePk(api, sk)
	if err != nil {
		return nil, err
	}
	eqX := gadgets.IsEqual(api, derived.X, pkX)
	eqY := gadgets.IsEqual(api, derived.Y, pkY)
	return api.Mul(eqX, eqY), nil
}

// AssertOwnership is the strict variant of OwnershipFlag: the circuit becomes
// unsatisfiable unless pk is exactly the key derived from sk.
func AssertOwnership(api frontend.API, pkX, pkY, sk frontend.Variable) error {
	flag, err := OwnershipFlag(api, pkX, pkY, sk)
	if err != nil {
		return err
	}
	api.AssertIsEqual(flag, 1)
	return nil
}
