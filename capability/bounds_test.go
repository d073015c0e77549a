package capability_test

import (
	"fmt"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/capdecode/capability"
)

func mustParse(s string) *big.Int {
	c, err := capability.ParseCapability(s)
	Expect(err).ToNot(HaveOccurred())
	return c
}

func hx(x *big.Int) string {
	return fmt.Sprintf("%#x", x)
}

// withExponent builds a CHERI Concentrate capability with internal exponent
// exp over the given other bits.
func withExponent(exp uint64, other *big.Int) *big.Int {
	nexp := ^exp & 0x3f
	c := new(big.Int).Set(other)
	c.SetBit(c, 94, 0)
	for i := 0; i < 3; i++ {
		c.SetBit(c, 64+i, uint((nexp>>i)&1))
		c.SetBit(c, 80+i, uint((nexp>>(3+i))&1))
	}
	return c
}

// Expected values come from the reference decoder of each revision.
var _ = Describe("Bounds decoding", func() {
	DescribeTable("reference vectors",
		func(raw string, v capability.SpecVersion, base, limit string) {
			d, err := capability.Decode(mustParse(raw), v)
			Expect(err).ToNot(HaveOccurred())
			Expect(hx(d.Base())).To(Equal(base))
			Expect(hx(d.Limit())).To(Equal(limit))
		},

		// Zero capability.
		Entry("zero, alpha1", "0", capability.Alpha1, "0x0", "0x0"),
		Entry("zero, beta0", "0", capability.Beta0, "0x0", "0x0"),
		Entry("zero, arran-596", "0", capability.Beta0Update, "0x0", "0x0"),
		Entry("zero, fixed", "0", capability.Beta0FixedConcentrate, "0x0", "0x10000000000000000"),
		Entry("zero, beta1", "0", capability.Beta1, "0x0", "0x10000000000000000"),
		Entry("zero, arran-822", "0", capability.Beta1Arran822, "0x0", "0x10000000000000000"),

		// External exponent, base 0x1000 top 0x2000 under the concentrate layout.
		Entry("external, alpha1", "0x100000000600010000000000000001800", capability.Alpha1, "0x1000", "0x1000"),
		Entry("external, beta0", "0x100000000600010000000000000001800", capability.Beta0, "0x1000", "0x1000"),
		Entry("external, arran-596", "0x100000000600010000000000000001800", capability.Beta0Update, "0x1000", "0x6000"),
		Entry("external, fixed", "0x100000000600010000000000000001800", capability.Beta0FixedConcentrate, "0x1000", "0x2000"),
		Entry("external, beta1", "0x100000000600010000000000000001800", capability.Beta1, "0x1000", "0x2000"),
		Entry("external, arran-822", "0x100000000600010000000000000001800", capability.Beta1Arran822, "0x1000", "0x2000"),

		// Internal exponent 4 under the concentrate layout.
		Entry("exp 4, alpha1", "0x100000000200710030000000000018000", capability.Alpha1, "0x15003", "0x1501c"),
		Entry("exp 4, arran-596", "0x100000000200710030000000000018000", capability.Beta0Update, "0x11003", "0x12007"),
		Entry("exp 4, fixed", "0x100000000200710030000000000018000", capability.Beta0FixedConcentrate, "0x10000", "0x60000"),
		Entry("exp 4, beta1", "0x100000000200710030000000000018000", capability.Beta1, "0x10000", "0x60000"),
		Entry("exp 4, arran-822", "0x100000000200710030000000000018000", capability.Beta1Arran822, "0x10000", "0x60000"),

		// Bit 55 of the value set: only beta1 sign-extends the bounds address.
		Entry("signed value, alpha1", "0x600010000080000000001800", capability.Alpha1, "0xff80000000001000", "0xff80000000001000"),
		Entry("signed value, arran-596", "0x600010000080000000001800", capability.Beta0Update, "0xff80000000001000", "0xff80000000006000"),
		Entry("signed value, fixed", "0x600010000080000000001800", capability.Beta0FixedConcentrate, "0x80000000001000", "0x80000000002000"),
		Entry("signed value, beta1", "0x600010000080000000001800", capability.Beta1, "0xff80000000001000", "0xff80000000002000"),
		Entry("signed value, arran-822", "0x600010000080000000001800", capability.Beta1Arran822, "0xff80000000001000", "0xff80000000002000"),

		// Raw exponent 61 with a wrapping value.
		Entry("exp 61, alpha1", "0x3ff8fffafffffffffffff000", capability.Alpha1, "0xffffffffe0000000", "0x7f80000000"),
		Entry("exp 61, arran-596", "0x3ff8fffafffffffffffff000", capability.Beta0Update, "0xfffffffffffffffa", "0x3ff8"),
		Entry("exp 61, fixed", "0x3ff8fffafffffffffffff000", capability.Beta0FixedConcentrate, "0xffe0000000000000", "0xffe0000000000000"),
		Entry("exp 61, beta1", "0x3ff8fffafffffffffffff000", capability.Beta1, "0xffe0000000000000", "0xffe0000000000000"),
		Entry("exp 61, arran-822", "0x3ff8fffafffffffffffff000", capability.Beta1Arran822, "0x0", "0x10000000000000000"),

		// Raw exponent 63: the limit needs the 65th bit before ARRAN-822.
		Entry("exp 63, alpha1", "0x1000000001ff891a000000000deadbeef", capability.Alpha1, "0xd1a00000", "0xefe00000"),
		Entry("exp 63, arran-596", "0x1000000001ff891a000000000deadbeef", capability.Beta0Update, "0xdead91a0", "0xdead9ff8"),
		Entry("exp 63, fixed", "0x1000000001ff891a000000000deadbeef", capability.Beta0FixedConcentrate, "0x4680000000000000", "0x17fe0000000000000"),
		Entry("exp 63, beta1", "0x1000000001ff891a000000000deadbeef", capability.Beta1, "0x4680000000000000", "0x17fe0000000000000"),
		Entry("exp 63, arran-822", "0x1000000001ff891a000000000deadbeef", capability.Beta1Arran822, "0x0", "0x10000000000000000"),

		// Raw exponent 22.
		Entry("exp 22, alpha1", "0xd02a90000000000004000", capability.Alpha1, "0x42a9", "0x5034"),
		Entry("exp 22, arran-596", "0xd02a90000000000004000", capability.Beta0Update, "0x2a9", "0x400d"),
		Entry("exp 22, beta1", "0xd02a90000000000004000", capability.Beta1, "0xaa000000", "0x2002000000"),
		Entry("exp 22, arran-822", "0xd02a90000000000004000", capability.Beta1Arran822, "0xaa000000", "0x2002000000"),

		// Alpha1 internal exponent 4.
		Entry("alpha1 exp 4, alpha1", "0x60004040000000000004800", capability.Alpha1, "0x4000", "0x18000"),
		Entry("alpha1 exp 4, beta0", "0x60004040000000000004800", capability.Beta0, "0x4000", "0x18000"),
		Entry("alpha1 exp 4, arran-596", "0x60004040000000000004800", capability.Beta0Update, "0x404", "0x600"),
		Entry("alpha1 exp 4, beta1", "0x60004040000000000004800", capability.Beta1, "0x1000000000000000", "0x11800000000000000"),

		// Alpha1 internal exponent 10 with a limit carry.
		Entry("alpha1 carry, alpha1", "0x4407f82000000123456789a", capability.Alpha1, "0x1233fe0000", "0x1234440000"),
		Entry("alpha1 carry, arran-596", "0x4407f82000000123456789a", capability.Beta0Update, "0x1234567f82", "0x1234568440"),
		Entry("alpha1 carry, fixed", "0x4407f82000000123456789a", capability.Beta0FixedConcentrate, "0xfe00000000000000", "0x11100000000000000"),

		// ARRAN-596 internal exponent 4.
		Entry("arran-596 exp 4, alpha1", "0x600010040000000000018000", capability.Alpha1, "0x15004", "0x16000"),
		Entry("arran-596 exp 4, arran-596", "0x600010040000000000018000", capability.Beta0Update, "0x10000", "0x60000"),
		Entry("arran-596 exp 4, arran-822", "0x600010040000000000018000", capability.Beta1Arran822, "0x11004", "0x12000"),

		// ARRAN-596 internal exponent 10 with a limit carry.
		Entry("arran-596 carry, alpha1", "0x4081ff820000ffff00001234", capability.Alpha1, "0xfffeffffff82", "0xffff00000207"),
		Entry("arran-596 carry, arran-596", "0x4081ff820000ffff00001234", capability.Beta0Update, "0xfffefffe0000", "0xffff01020000"),
		Entry("arran-596 carry, beta1", "0x4081ff820000ffff00001234", capability.Beta1, "0xfffeffffff82", "0xffff00000081"),

		// B3 == 0: the legacy limit window R = B3-1 wraps at 64 bits, so the
		// limit correction is always zero.
		Entry("B3 zero, alpha1", "0x1eab477d26415479c65dc9f503f63af83", capability.Alpha1,
			"0xfc79800000000000", "0xfe05000000000000"),
		Entry("B3 zero, beta0", "0x1eab477d26415479c65dc9f503f63af83", capability.Beta0,
			"0xfc79800000000000", "0xfe05000000000000"),
		Entry("B3 zero external, alpha1", "0x1f8c110fb3a828159c9d22950eb25f8a1", capability.Alpha1,
			"0xffd22950eb25c159", "0xffd22950eb25ca0a"),
		Entry("B3 zero external, beta0", "0x1f8c110fb3a828159c9d22950eb25f8a1", capability.Beta0,
			"0xffd22950eb25c159", "0xffd22950eb25ca0a"),
		Entry("B3 zero internal, alpha1", "0xee7d0ae2145103c7ff5e1d1f1cfb0a06", capability.Alpha1,
			"0x41e00000000000", "0x50a00000000000"),
		Entry("B3 zero internal, beta0", "0xee7d0ae2145103c7ff5e1d1f1cfb0a06", capability.Beta0,
			"0x41e00000000000", "0x50a00000000000"),
	)

	DescribeTable("exponents",
		func(raw string, v capability.SpecVersion, exp int) {
			d, err := capability.Decode(mustParse(raw), v)
			Expect(err).ToNot(HaveOccurred())
			Expect(d.Exponent()).To(Equal(exp))
		},
		Entry("zero, alpha1", "0", capability.Alpha1, 0),
		Entry("zero, beta1", "0", capability.Beta1, 63),
		Entry("concentrate exp 4", "0x100000000200710030000000000018000", capability.Beta1, 4),
		Entry("concentrate exp 4 read as alpha1", "0x100000000200710030000000000018000", capability.Alpha1, 0),
		Entry("alpha1 exp 4", "0x60004040000000000004800", capability.Alpha1, 4),
		Entry("alpha1 exp 4 read as beta1", "0x60004040000000000004800", capability.Beta1, 59),
		Entry("arran-596 exp 4", "0x600010040000000000018000", capability.Beta0Update, 4),
		Entry("alpha1 clamps at 52", "0x401c0070000000000000000", capability.Alpha1, 52),
	)

	Describe("ARRAN-822 saturation", func() {
		others := []string{
			"0",
			"0x1ffffffffffffffffffffffffffffffff",
			"0x100000000600010000000000000001800",
			"0x1000000001ff891a000000000deadbeef",
			"0x4081ff820000ffff00001234",
		}

		It("should decode exponent 63 to the full address space", func() {
			for _, o := range others {
				d, err := capability.Decode(withExponent(63, mustParse(o)), capability.Beta1Arran822)
				Expect(err).ToNot(HaveOccurred())
				Expect(hx(d.Base())).To(Equal("0x0"), o)
				Expect(hx(d.Limit())).To(Equal("0x10000000000000000"), o)
			}
		})

		It("should decode reserved exponents 51 to 62 to the full address space", func() {
			for exp := uint64(51); exp < 63; exp++ {
				for _, o := range others {
					d, err := capability.Decode(withExponent(exp, mustParse(o)), capability.Beta1Arran822)
					Expect(err).ToNot(HaveOccurred())
					Expect(hx(d.Base())).To(Equal("0x0"))
					Expect(hx(d.Limit())).To(Equal("0x10000000000000000"))
				}
			}
		})

		It("should fall through to beta1 at the maximum exponent", func() {
			for _, o := range others {
				c := withExponent(50, mustParse(o))
				arran, err := capability.Decode(c, capability.Beta1Arran822)
				Expect(err).ToNot(HaveOccurred())
				beta1, err := capability.Decode(c, capability.Beta1)
				Expect(err).ToNot(HaveOccurred())
				Expect(hx(arran.Base())).To(Equal(hx(beta1.Base())))
				Expect(hx(arran.Limit())).To(Equal(hx(beta1.Limit())))
			}
		})
	})

	Describe("Result widths", func() {
		It("should keep base within 64 bits and limit within 65", func() {
			for _, v := range capability.SpecVersions() {
				for _, raw := range []string{
					"0x1ffffffffffffffffffffffffffffffff",
					"0x1000000001ff891a000000000deadbeef",
					"0x3ff8fffafffffffffffff000",
				} {
					d, err := capability.Decode(mustParse(raw), v)
					Expect(err).ToNot(HaveOccurred())
					Expect(d.Base().Sign()).To(BeNumerically(">=", 0))
					Expect(d.Base().BitLen()).To(BeNumerically("<=", 64))
					Expect(d.Limit().Sign()).To(BeNumerically(">=", 0))
					Expect(d.Limit().BitLen()).To(BeNumerically("<=", 65))
				}
			}
		})
	})
})
