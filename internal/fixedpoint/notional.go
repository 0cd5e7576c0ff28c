package fixedpoint

import "github.com/shopspring/decimal"

// Notional computes price * qty to fee-unit precision without int64
// overflow, rounding half-to-even (banker's rounding) as required by
// spec.md §4.1. priceScale and qtyScale are the scales the two inputs are
// stored at; feeScale is the scale the result should be truncated/rounded
// to (typically the symbol's qty scale, since notional is a quote-currency
// quantity).
//
// The multiply itself is exact (shopspring/decimal backs onto math/big),
// so overflow only matters at the final rounding step.
func Notional(price, qty Value, priceScale, qtyScale, feeScale Scale) decimal.Decimal {
	p := decimal.New(price.Int64(), int32(-priceScale.Exponent()))
	q := decimal.New(qty.Int64(), int32(-qtyScale.Exponent()))
	product := p.Mul(q)
	return product.RoundBank(int32(feeScale.Exponent()))
}

// NotionalValue is Notional rendered back into a scaled Value at feeScale,
// for callers that want to keep working in scaled integers after the
// decimal-precision rounding step.
func NotionalValue(price, qty Value, priceScale, qtyScale, feeScale Scale) Value {
	rounded := Notional(price, qty, priceScale, qtyScale, feeScale)
	shifted := rounded.Shift(int32(feeScale.Exponent()))
	return Value(shifted.IntPart())
}
