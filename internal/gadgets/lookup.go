package gadgets

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/selector"
)

// ReadAt returns arr[idx] for a proof-time idx, as an equality-selector sum
// over all candidate positions. idx is constrained to [0, len(arr)).
func ReadAt(api frontend.API, idx frontend.Variable, arr ...frontend.Variable) frontend.Variable {
	return selector.Mux(api, idx, arr...)
}

// Indicators returns the one-hot equality flags eq[k] = (idx == k) for
// k in [0, n). The flags are 0/1 by construction; their sum is 1 only when
// idx lies in range, which callers must enforce separately when needed.
func Indicators(api frontend.API, idx frontend.Variable, n int) []frontend.Variable {
	eq := make([]frontend.Variable, n)
	for k := 0; k < n; k++ {
		eq[k] = api.IsZero(api.Sub(idx, k))
	}
	return eq
}
