package capability

import (
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/capdecode/bitslice"
)

// legacyCorrectionCutoff is the exponent from which alpha1 and beta0 stop
// correcting the address's high bits.
const legacyCorrectionCutoff = 50

// legacyCodec decodes the pre-CHERI-Concentrate bounds of morello-alpha1,
// morello-beta0 and morello-beta0-arran-596. Base and limit are rebuilt
// separately; IE set means the exponent is stored in the low mantissa bits.
type legacyCodec struct {
	ieBit      int
	limitHiBit int
	limitExpHi int
	limitLoBit int
	baseHiBit  int
	baseExpHi  int
	baseLoBit  int

	// guardTop skips the high-bit correction once exp+MW passes bit 63.
	guardTop bool

	// limitRMask masks R = B3-1 before the limit comparison. alpha1 wraps
	// it at 64 bits, ARRAN-596 keeps three.
	limitRMask uint64
}

var alpha1Bounds = &legacyCodec{
	ieBit:      90,
	limitHiBit: 89,
	limitExpHi: 80,
	limitLoBit: 78,
	baseHiBit:  77,
	baseExpHi:  66,
	baseLoBit:  64,
	limitRMask: ^uint64(0),
}

var beta0UpdateBounds = &legacyCodec{
	ieBit:      94,
	limitHiBit: 93,
	limitExpHi: 82,
	limitLoBit: 80,
	baseHiBit:  79,
	baseExpHi:  66,
	baseLoBit:  64,
	guardTop:   true,
	limitRMask: 0x7,
}

func (l *legacyCodec) mantissaWidth() int {
	return l.baseHiBit - l.baseLoBit + 1
}

func (l *legacyCodec) limitWidth() int {
	return l.limitHiBit - l.limitLoBit + 1
}

func (l *legacyCodec) maxExponent() int {
	return valueBits - l.mantissaWidth() + 2
}

func (l *legacyCodec) internalExponent(c *big.Int) bool {
	return u2b(bitslice.Bit(c, l.ieBit))
}

func (l *legacyCodec) exponent(c *big.Int) int {
	if !l.internalExponent(c) {
		return 0
	}
	hi := bitslice.SliceU64(c, l.limitExpHi, l.limitLoBit)
	lo := bitslice.SliceU64(c, l.baseExpHi, l.baseLoBit)
	exp := int(hi<<uint(l.baseExpHi-l.baseLoBit+1) | lo)
	return min(exp, l.maxExponent())
}

// valueForBound sign-extends the low 56 bits of the value to 64.
func valueForBound(c *big.Int) *big.Int {
	return bitslice.SignExtend(
		bitslice.SliceLW(c, valueLoBit, valueForBoundBits),
		valueForBoundBits, valueBits)
}

func (l *legacyCodec) correctsTop(exp int) bool {
	if exp >= legacyCorrectionCutoff {
		return false
	}
	return !l.guardTop || exp+l.mantissaWidth() <= valueHiBit
}

// place assembles a bound from the corrected address high bits, the
// mantissa m at bit exp, and zeros below.
func (l *legacyCodec) place(a, m *big.Int, exp int, corr int64) *big.Int {
	mw := l.mantissaWidth()
	v := new(big.Int)
	if l.correctsTop(exp) {
		hi := addHigh(bitslice.SliceHL(a, valueHiBit, exp+mw), corr)
		v = bitslice.SetSliceHL(v, valueHiBit, exp+mw, bitslice.SliceHL(hi, valueHiBit-mw-exp, 0))
	}
	v = bitslice.SetSliceHL(v, exp+mw-1, exp, bitslice.SliceHL(m, mw-1, 0))
	v = bitslice.SetSliceHL(v, exp-1, 0, new(big.Int))
	return mask64(v)
}

func (l *legacyCodec) bottom(c *big.Int) *big.Int {
	b := bitslice.SliceLW(c, l.baseLoBit, l.mantissaWidth())
	if l.internalExponent(c) {
		b = bitslice.SetSliceHL(b, 2, 0, new(big.Int))
	}
	return b
}

func (l *legacyCodec) base(c *big.Int, tr log.FieldLogger) *big.Int {
	mw := l.mantissaWidth()
	exp := l.exponent(c)
	b := l.bottom(c)
	a := valueForBound(c)

	a3 := bitslice.SliceU64(a, exp+mw-1, exp+mw-3)
	b3 := bitslice.SliceU64(b, mw-1, mw-3)
	// R is not masked here, so B3 == 0 gives R = -1 and nothing is below it.
	r := int64(b3) - 1
	cb := correction(int64(a3) < r, int64(b3) < r)

	if tr != nil {
		tr.WithFields(log.Fields{
			"exp": exp, "R": r, "a3": a3, "b3": b3, "cb": cb,
		}).Debug("base correction")
	}

	return l.place(a, b, exp, cb)
}

// extendLimit recovers the top two bits of the limit mantissa from the base.
func (l *legacyCodec) extendLimit(t, b *big.Int, ie bool) *big.Int {
	mw := l.mantissaWidth()
	lo := 0
	if ie {
		lo = 3
	}
	var carry uint64
	if bitslice.SliceU64(t, mw-3, lo) < bitslice.SliceU64(b, mw-3, lo) {
		carry = 1
	}
	top := bitslice.SliceU64(b, mw-1, mw-2) + carry + uint64(b2i(ie))
	return bitslice.Uint(top & 0x3)
}

func (l *legacyCodec) top(c, b *big.Int) *big.Int {
	mw := l.mantissaWidth()
	ie := l.internalExponent(c)
	t := bitslice.SliceLW(c, l.limitLoBit, l.limitWidth())
	if ie {
		t = bitslice.SetSliceHL(t, 2, 0, new(big.Int))
	}
	return bitslice.SetSliceHL(t, mw-1, mw-2, l.extendLimit(t, b, ie))
}

func (l *legacyCodec) limit(c *big.Int, tr log.FieldLogger) *big.Int {
	mw := l.mantissaWidth()
	exp := l.exponent(c)
	b := l.bottom(c)
	t := l.top(c, b)
	a := valueForBound(c)

	a3 := bitslice.SliceU64(a, exp+mw-1, exp+mw-3)
	b3 := bitslice.SliceU64(b, mw-1, mw-3)
	t3 := bitslice.SliceU64(t, mw-1, mw-3)
	r := (b3 - 1) & l.limitRMask
	ct := correction(a3 < r, t3 < r)

	if tr != nil {
		tr.WithFields(log.Fields{
			"exp": exp, "R": r, "a3": a3, "b3": b3, "t3": t3, "ct": ct,
		}).Debug("limit correction")
	}

	return l.place(a, t, exp, ct)
}

func (l *legacyCodec) bounds(c *big.Int, tr log.FieldLogger) (base, limit *big.Int) {
	return l.base(c, tr), l.limit(c, tr)
}
