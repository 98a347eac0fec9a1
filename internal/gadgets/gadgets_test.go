package gadgets

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
)

type cmpCircuit struct {
	A  frontend.Variable
	B  frontend.Variable
	Lt frontend.Variable `gnark:",public"`
	Ge frontend.Variable `gnark:",public"`
	Eq frontend.Variable `gnark:",public"`
}

func (c *cmpCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(LessThan(api, c.A, c.B, 14), c.Lt)
	api.AssertIsEqual(GreaterEqThan(api, c.A, c.B, 14), c.Ge)
	api.AssertIsEqual(IsEqual(api, c.A, c.B), c.Eq)
	return nil
}

func TestComparators(t *testing.T) {
	assert := test.NewAssert(t)

	cases := []struct {
		a, b       int
		lt, ge, eq int
	}{
		{3, 5, 1, 0, 0},
		{5, 3, 0, 1, 0},
		{7, 7, 0, 1, 1},
		{0, 16383, 1, 0, 0},
		{16383, 0, 0, 1, 0},
	}
	for _, tc := range cases {
		assert.CheckCircuit(
			&cmpCircuit{},
			test.WithValidAssignment(&cmpCircuit{A: tc.a, B: tc.b, Lt: tc.lt, Ge: tc.ge, Eq: tc.eq}),
			test.WithInvalidAssignment(&cmpCircuit{A: tc.a, B: tc.b, Lt: 1 - tc.lt, Ge: tc.ge, Eq: tc.eq}),
			test.WithCurves(ecc.BN254),
		)
	}
}

type divModCircuit struct {
	A frontend.Variable
	B frontend.Variable
	Q frontend.Variable `gnark:",public"`
	R frontend.Variable `gnark:",public"`
}

func (c *divModCircuit) Define(api frontend.API) error {
	q, r, err := CheckedDivMod(api, c.A, c.B, 14, 14)
	if err != nil {
		return err
	}
	api.AssertIsEqual(c.Q, q)
	api.AssertIsEqual(c.R, r)
	return nil
}

func TestCheckedDivMod(t *testing.T) {
	assert := test.NewAssert(t)

	assert.CheckCircuit(
		&divModCircuit{},
		test.WithValidAssignment(&divModCircuit{A: 100, B: 7, Q: 14, R: 2}),
		test.WithValidAssignment(&divModCircuit{A: 51, B: 52, Q: 0, R: 51}),
		test.WithValidAssignment(&divModCircuit{A: 0, B: 3, Q: 0, R: 0}),
		test.WithInvalidAssignment(&divModCircuit{A: 100, B: 7, Q: 13, R: 9}),
		test.WithInvalidAssignment(&divModCircuit{A: 100, B: 0, Q: 0, R: 100}),
		test.WithCurves(ecc.BN254),
	)
}

type safeArithCircuit struct {
	A    frontend.Variable
	B    frontend.Variable
	Sum  frontend.Variable `gnark:",public"`
	Diff frontend.Variable `gnark:",public"`
	Prod frontend.Variable `gnark:",public"`
}

func (c *safeArithCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(SafeAdd(api, c.A, c.B, 14), c.Sum)
	api.AssertIsEqual(SafeSub(api, c.A, c.B, 14), c.Diff)
	prod, err := SafeMul(api, c.A, c.B, 14)
	if err != nil {
		return err
	}
	api.AssertIsEqual(prod, c.Prod)
	return nil
}

func TestSafeArithmetic(t *testing.T) {
	assert := test.NewAssert(t)

	assert.CheckCircuit(
		&safeArithCircuit{},
		test.WithValidAssignment(&safeArithCircuit{A: 9, B: 4, Sum: 13, Diff: 5, Prod: 36}),
		test.WithValidAssignment(&safeArithCircuit{A: 52, B: 0, Sum: 52, Diff: 52, Prod: 0}),
		// underflow: 4-9 wraps, SafeSub must reject the whole assignment
		test.WithInvalidAssignment(&safeArithCircuit{A: 4, B: 9, Sum: 13, Diff: 5, Prod: 36}),
		// overflow past 14 bits
		test.WithInvalidAssignment(&safeArithCircuit{A: 10000, B: 10000, Sum: 20000, Diff: 0, Prod: 100000000}),
		test.WithCurves(ecc.BN254),
	)
}

type readAtCircuit struct {
	Arr [5]frontend.Variable
	Idx frontend.Variable
	Out frontend.Variable `gnark:",public"`
}

func (c *readAtCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(ReadAt(api, c.Idx, c.Arr[:]...), c.Out)

	// Indicators must agree with the mux read and form a one-hot vector.
	eq := Indicators(api, c.Idx, len(c.Arr))
	var sum, dot frontend.Variable = 0, 0
	for k := range eq {
		sum = api.Add(sum, eq[k])
		dot = api.Add(dot, api.Mul(eq[k], c.Arr[k]))
	}
	api.AssertIsEqual(sum, 1)
	api.AssertIsEqual(dot, c.Out)
	return nil
}

func TestReadAtAndIndicators(t *testing.T) {
	assert := test.NewAssert(t)

	arr := [5]frontend.Variable{10, 20, 30, 40, 50}
	assert.CheckCircuit(
		&readAtCircuit{},
		test.WithValidAssignment(&readAtCircuit{Arr: arr, Idx: 0, Out: 10}),
		test.WithValidAssignment(&readAtCircuit{Arr: arr, Idx: 4, Out: 50}),
		test.WithInvalidAssignment(&readAtCircuit{Arr: arr, Idx: 2, Out: 40}),
		test.WithInvalidAssignment(&readAtCircuit{Arr: arr, Idx: 7, Out: 10}),
		test.WithCurves(ecc.BN254),
	)
}

type selectCircuit struct {
	Sel frontend.Variable
	A   frontend.Variable
	B   frontend.Variable
	Out frontend.Variable `gnark:",public"`
}

func (c *selectCircuit) Define(api frontend.API) error {
	api.AssertIsBoolean(c.Sel)
	api.AssertIsEqual(Select(api, c.Sel, c.A, c.B), c.Out)
	return nil
}

func TestSelect(t *testing.T) {
	assert := test.NewAssert(t)

	assert.CheckCircuit(
		&selectCircuit{},
		test.WithValidAssignment(&selectCircuit{Sel: 0, A: 11, B: 22, Out: 11}),
		test.WithValidAssignment(&selectCircuit{Sel: 1, A: 11, B: 22, Out: 22}),
		test.WithInvalidAssignment(&selectCircuit{Sel: 1, A: 11, B: 22, Out: 11}),
		test.WithCurves(ecc.BN254),
	)
}
