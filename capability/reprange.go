package capability

import (
	"math/big"

	"github.com/sarchlab/capdecode/bitslice"
)

// representableRange returns [RepB, RepT), the window around base in which
// the compressed bounds stay exact. Near the top exponent the window is the
// whole address space.
func representableRange(base *big.Int, exp, mw, maxExp int) (repB, repT *big.Int) {
	if exp > maxExp-2 {
		return fullRange()
	}
	shift := uint(mw - 3 + exp)
	b3 := bitslice.SliceHL(base, valueHiBit, int(shift))
	r3 := b3.Sub(b3, big.NewInt(1))

	repB = new(big.Int).Lsh(r3, shift)
	repT = new(big.Int).Lsh(big.NewInt(1), uint(exp+mw))
	repT.Add(repT, repB)
	if repB.Sign() < 0 {
		repB.Add(repB, new(big.Int).Lsh(big.NewInt(1), valueBits))
	}
	return repB, repT
}

// RepresentableRange returns the representable range of a capability whose
// decoded base is base, using the geometry of version v.
func RepresentableRange(capability, base *big.Int, v SpecVersion) (repB, repT *big.Int, err error) {
	spec, err := v.spec()
	if err != nil {
		return nil, nil, err
	}
	codec := spec.bounds
	repB, repT = representableRange(base, codec.exponent(capability), codec.mantissaWidth(), codec.maxExponent())
	return repB, repT, nil
}
