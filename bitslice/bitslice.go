// Package bitslice provides width-aware bit extraction and insertion over
// arbitrary-precision integers.
//
// Every operation is functional: inputs are never modified and a freshly
// allocated result is returned. Negative inputs are read in two's complement,
// which lets callers mask an intermediate such as (hi - 1) back into a fixed
// register width the same way hardware wraparound would.
//
// Usage:
//
//	x := big.NewInt(0b1011)
//	v := bitslice.SliceHL(x, 3, 1) // 0b101
package bitslice

import "math/big"

// Mask returns (1 << width) - 1. A width of zero or less yields zero.
func Mask(width int) *big.Int {
	if width <= 0 {
		return new(big.Int)
	}
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

// Bit returns bit n of x.
func Bit(x *big.Int, n int) uint {
	if n < 0 {
		return 0
	}
	return x.Bit(n)
}

// SliceHL returns bits [high:low] of x, right-justified.
func SliceHL(x *big.Int, high, low int) *big.Int {
	return SliceLW(x, low, high-low+1)
}

// SliceLW returns width bits of x starting at bit low, right-justified.
func SliceLW(x *big.Int, low, width int) *big.Int {
	if width <= 0 || low < 0 {
		return new(big.Int)
	}
	v := new(big.Int).Rsh(x, uint(low))
	return v.And(v, Mask(width))
}

// SliceU64 is SliceHL for slices known to fit in 64 bits.
func SliceU64(x *big.Int, high, low int) uint64 {
	return SliceHL(x, high, low).Uint64()
}

// SetBit returns x with bit n replaced by the low bit of v.
func SetBit(x *big.Int, n int, v uint) *big.Int {
	return SetSliceLW(x, n, 1, new(big.Int).SetUint64(uint64(v)))
}

// SetSliceHL returns x with bits [high:low] replaced by v masked to the
// slice width. An empty slice (high < low) leaves x unchanged.
func SetSliceHL(x *big.Int, high, low int, v *big.Int) *big.Int {
	return SetSliceLW(x, low, high-low+1, v)
}

// SetSliceLW returns x with width bits starting at low replaced by v masked
// to width.
func SetSliceLW(x *big.Int, low, width int, v *big.Int) *big.Int {
	z := new(big.Int).Set(x)
	if width <= 0 || low < 0 {
		return z
	}
	mask := Mask(width)
	field := new(big.Int).And(v, mask)
	z.AndNot(z, mask.Lsh(mask, uint(low)))
	return z.Or(z, field.Lsh(field, uint(low)))
}

// SignExtend treats the low oldWidth bits of x as a two's-complement value
// and, if its sign bit is set, fills bits [newWidth-1:oldWidth] with ones.
// Otherwise x is returned unchanged.
func SignExtend(x *big.Int, oldWidth, newWidth int) *big.Int {
	z := new(big.Int).Set(x)
	if oldWidth <= 0 || Bit(x, oldWidth-1) == 0 {
		return z
	}
	fill := Mask(newWidth - oldWidth)
	return z.Or(z, fill.Lsh(fill, uint(oldWidth)))
}

// Uint wraps a uint64 as a *big.Int.
func Uint(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
