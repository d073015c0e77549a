// Package capability decodes 129-bit Morello capabilities.
//
// A capability packs a tag, a permission bit-vector, an object type, flags,
// a 64-bit value and a pair of compressed bounds. The bounds are stored as
// two narrow mantissas sharing an exponent; decoding rebuilds the full base
// and limit from them and the value. Six revisions of the encoding are
// supported, each with its own field layout and bounds algorithm.
//
// Usage:
//
//	c, _ := capability.ParseCapability("0x1_0000_0000_6000_1000_0000_0000_0000_1800")
//	d, err := capability.Decode(c, capability.Beta1Arran822)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("base %#x limit %#x\n", d.Base(), d.Limit())
//
// All decoding is pure; values are never shared between calls.
package capability
