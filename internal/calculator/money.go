package calculator

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	hundred = big.NewInt(100)
	two     = big.NewInt(2)
)

// RoundCents rounds an exact amount to two decimal places using
// round-half-up (halves move away from zero, so 0.005 -> 0.01 and
// -0.005 -> -0.01).
func RoundCents(r *big.Rat) decimal.Decimal {
	// floor((2*|num|*100 + den) / (2*den))
	num := new(big.Int).Abs(r.Num())
	num.Mul(num, hundred)
	den := r.Denom()

	q := new(big.Int).Mul(num, two)
	q.Add(q, den)
	q.Quo(q, new(big.Int).Mul(den, two))
	if r.Sign() < 0 {
		q.Neg(q)
	}
	return decimal.NewFromBigInt(q, -2)
}

// equalShare returns amount/n exactly. n must be positive.
func equalShare(amount decimal.Decimal, n int) *big.Rat {
	return new(big.Rat).Quo(amount.Rat(), big.NewRat(int64(n), 1))
}
