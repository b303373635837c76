package optimus

import "math/big"

var modulus = new(big.Int).SetUint64(MaxInt + 1)

// ModInverse returns x in [0, 2^31) with (prime * x) mod 2^31 == 1.
// It reports false when prime shares a factor with 2^31, i.e. is even.
func ModInverse(prime uint64) (uint64, bool) {
	a := new(big.Int).SetUint64(prime)
	x := new(big.Int)
	gcd := new(big.Int).GCD(x, nil, a, modulus)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	// x may be negative; Mod is Euclidean and lands in [0, 2^31).
	return x.Mod(x, modulus).Uint64(), true
}
