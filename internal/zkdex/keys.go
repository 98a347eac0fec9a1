// keys.go - Baby Jubjub key material for note ownership.

package zkdex

import (
	"crypto/rand"
	"fmt"
	"math/big"

	babyjub "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
)

// PublicKey is an affine Baby Jubjub point.
type PublicKey struct {
	X *big.Int
	Y *big.Int
}

// KeyPair holds a secret scalar and the public point derived from it.
type KeyPair struct {
	Sk *big.Int
	Pk PublicKey
}

// DerivePublicKey returns sk*G for the Baby Jubjub generator G.
func DerivePublicKey(sk *big.Int) PublicKey {
	params := babyjub.GetEdwardsCurve()
	var p babyjub.PointAffine
	p.ScalarMultiplication(&params.Base, sk)
	return PublicKey{
		X: p.X.BigInt(new(big.Int)),
		Y: p.Y.BigInt(new(big.Int)),
	}
}

// GenerateKeyPair samples a secret key uniformly below the subgroup order.
func GenerateKeyPair() (*KeyPair, error) {
	params := babyjub.GetEdwardsCurve()
	sk, err := rand.Int(rand.Reader, &params.Order)
	if err != nil {
		return nil, fmt.Errorf("sample secret key: %w", err)
	}
	if sk.Sign() == 0 {
		sk.SetInt64(1)
	}
	return &KeyPair{Sk: sk, Pk: DerivePublicKey(sk)}, nil
}

// Equal reports whether both coordinates match.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.X.Cmp(other.X) == 0 && pk.Y.Cmp(other.Y) == 0
}
