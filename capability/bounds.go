package capability

import (
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/capdecode/bitslice"
)

// Bit positions shared by every encoding.
const (
	valueHiBit         = 63
	valueLoBit         = 0
	valueBits          = valueHiBit - valueLoBit + 1
	valueForBoundHiBit = 55
	valueForBoundBits  = valueForBoundHiBit - valueLoBit + 1
	flagsLoBit         = 56

	limitBits = valueBits + 1
)

// boundsCodec is the bounds half of an encoding version: it rebuilds the
// full-width base and limit from the compressed fields and knows the
// exponent and mantissa geometry the representable range is computed from.
type boundsCodec interface {
	// bounds returns base masked to 64 bits and limit masked to 65 bits.
	bounds(c *big.Int, tr log.FieldLogger) (base, limit *big.Int)

	// exponent returns the exponent reported for c.
	exponent(c *big.Int) int

	mantissaWidth() int
	maxExponent() int
}

// correction is the ±1 adjustment applied to the address's high bits when
// the address and a bound sit on different sides of the representable
// window's lower edge.
func correction(addrBelow, boundBelow bool) int64 {
	return b2i(boundBelow) - b2i(addrBelow)
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func u2b(v uint) bool {
	return v != 0
}

// fullRange is [0, 2^64).
func fullRange() (base, limit *big.Int) {
	return new(big.Int), new(big.Int).Lsh(big.NewInt(1), valueBits)
}

func mask64(x *big.Int) *big.Int {
	return bitslice.SliceHL(x, valueBits-1, 0)
}

func mask65(x *big.Int) *big.Int {
	return bitslice.SliceHL(x, limitBits-1, 0)
}

// addHigh returns x with c added, as a signed offset.
func addHigh(x *big.Int, c int64) *big.Int {
	return new(big.Int).Add(x, big.NewInt(c))
}
