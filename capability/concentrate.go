package capability

import (
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/capdecode/bitslice"
)

// CHERI Concentrate field positions, shared by beta0-fixed and beta1.
const (
	ccIEBit               = 94
	ccLimitHiBit          = 93
	ccLimitMantissaLoBit  = 83
	ccLimitExpHiBit       = 82
	ccLimitLoBit          = 80
	ccBaseHiBit           = 79
	ccBaseMantissaLoBit   = 67
	ccBaseExpHiBit        = 66
	ccBaseLoBit           = 64
	ccMantissaWidth       = ccBaseHiBit - ccBaseLoBit + 1
	ccMaxExponent         = valueBits - ccMantissaWidth + 2
	ccMaxEncodedExponent  = 63
	ccExponentFieldsWidth = 6
)

// concentrateCodec decodes the CHERI Concentrate bounds used from
// morello-beta0-fixed-cheri-concentrate on. Here IE clear means internal
// exponent, stored inverted across the low bits of both mantissas.
type concentrateCodec struct {
	// boundsAddress maps the 64-bit value to the address the A3 window and
	// high bits are taken from.
	boundsAddress func(value *big.Int) *big.Int
}

var beta0FixedBounds = &concentrateCodec{
	boundsAddress: func(value *big.Int) *big.Int { return value },
}

// beta1Bounds sign-extends the address below the flags byte.
var beta1Bounds = &concentrateCodec{
	boundsAddress: func(value *big.Int) *big.Int {
		return bitslice.SignExtend(bitslice.SliceHL(value, flagsLoBit-1, 0), flagsLoBit, valueBits)
	},
}

func (cc *concentrateCodec) mantissaWidth() int {
	return ccMantissaWidth
}

func (cc *concentrateCodec) maxExponent() int {
	return ccMaxExponent
}

func ccInternalExponent(c *big.Int) bool {
	return bitslice.Bit(c, ccIEBit) == 0
}

// ccExponent returns the encoded exponent, before clamping.
func ccExponent(c *big.Int) int {
	if !ccInternalExponent(c) {
		return 0
	}
	hi := bitslice.SliceU64(c, ccLimitExpHiBit, ccLimitLoBit)
	lo := bitslice.SliceU64(c, ccBaseExpHiBit, ccBaseLoBit)
	nexp := hi<<(ccBaseExpHiBit-ccBaseLoBit+1) | lo
	return int(^nexp & bitslice.Mask(ccExponentFieldsWidth).Uint64())
}

func (cc *concentrateCodec) exponent(c *big.Int) int {
	return ccExponent(c)
}

func ccEffectiveExponent(c *big.Int) int {
	return min(ccExponent(c), ccMaxExponent)
}

func ccBottom(c *big.Int) *big.Int {
	if ccInternalExponent(c) {
		b := bitslice.SliceHL(c, ccBaseHiBit, ccBaseMantissaLoBit)
		return b.Lsh(b, 3)
	}
	return bitslice.SliceHL(c, ccBaseHiBit, ccBaseLoBit)
}

func ccTop(c *big.Int) *big.Int {
	mw := ccMantissaWidth
	b := ccBottom(c)

	var t *big.Int
	var lmsb, lcarry uint64
	if ccInternalExponent(c) {
		lmsb = 1
		t = bitslice.SliceHL(c, ccLimitHiBit, ccLimitMantissaLoBit)
		t.Lsh(t, 3)
	} else {
		t = bitslice.SliceHL(c, ccLimitHiBit, ccLimitLoBit)
	}
	if bitslice.SliceU64(t, mw-3, 0) < bitslice.SliceU64(b, mw-3, 0) {
		lcarry = 1
	}
	top2 := bitslice.SliceU64(b, mw-1, mw-2) + lmsb + lcarry
	return bitslice.SetSliceHL(t, mw-1, mw-2, bitslice.Uint(top2))
}

func (cc *concentrateCodec) bounds(c *big.Int, tr log.FieldLogger) (base, limit *big.Int) {
	mw := ccMantissaWidth
	exp := ccEffectiveExponent(c)
	bottom := ccBottom(c)
	top := ccTop(c)

	base = bitslice.SetSliceHL(new(big.Int), exp+mw-1, exp, bottom)
	limit = bitslice.SetSliceHL(new(big.Int), exp+mw-1, exp, top)

	a := cc.boundsAddress(bitslice.SliceHL(c, valueHiBit, valueLoBit))
	a3 := bitslice.SliceU64(a, exp+mw-1, exp+mw-3)
	b3 := bitslice.SliceU64(bottom, mw-1, mw-3)
	t3 := bitslice.SliceU64(top, mw-1, mw-3)
	r3 := (b3 - 1) & 0x7

	aHi := a3 < r3
	bHi := b3 < r3
	tHi := t3 < r3
	correctionBase := correction(aHi, bHi)
	correctionLimit := correction(aHi, tHi)

	if tr != nil {
		tr.WithFields(log.Fields{
			"exp": exp, "R3": r3, "A3": a3, "B3": b3, "T3": t3,
			"aHi": b2i(aHi), "bHi": b2i(bHi), "tHi": b2i(tHi),
		}).Debug("bounds correction")
	}

	if exp < ccMaxExponent {
		atop := bitslice.SliceHL(a, limitBits, exp+mw)
		base = bitslice.SetSliceHL(base, limitBits, exp+mw, addHigh(atop, correctionBase))
		limit = bitslice.SetSliceHL(limit, limitBits, exp+mw, addHigh(atop, correctionLimit))
	}

	// A limit more than one unit past the base's half of the address space
	// wrapped past 2^64.
	l2 := bitslice.SliceU64(limit, valueBits, valueBits-1)
	b2 := uint64(bitslice.Bit(base, valueBits-1))
	if exp < ccMaxExponent-1 && (l2-b2)&0x3 > 1 {
		limit = bitslice.SetBit(limit, valueBits, bitslice.Bit(limit, valueBits)^1)
	}

	return mask64(base), mask65(limit)
}

// arran822Codec applies ARRAN-822 on top of beta1: exponents past the
// maximum, including the all-ones encoding, mean the whole address space.
type arran822Codec struct {
	*concentrateCodec
}

var arran822Bounds = &arran822Codec{concentrateCodec: beta1Bounds}

func exponentOutOfRange(exp int) bool {
	return exp > ccMaxExponent && exp < ccMaxEncodedExponent
}

func (ac *arran822Codec) bounds(c *big.Int, tr log.FieldLogger) (base, limit *big.Int) {
	exp := ccExponent(c)
	if exp == ccMaxEncodedExponent || exponentOutOfRange(exp) {
		if tr != nil {
			tr.WithField("exp", exp).Debug("exponent saturates to full range")
		}
		return fullRange()
	}
	return ac.concentrateCodec.bounds(c, tr)
}
