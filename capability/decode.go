package capability

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Names of the computed entries appended after the structural fields.
const (
	NameBase     = "Base"
	NameRepB     = "RepB"
	NameLimit    = "Limit"
	NameRepT     = "RepT"
	NameExponent = "Exponent"
)

// CapabilityBits is the width of a capability including its tag.
const CapabilityBits = 129

// ErrInvalidCapability is returned for literals that are not a 129-bit
// unsigned integer.
var ErrInvalidCapability = errors.New("invalid capability")

// ParseCapability parses a decimal or prefixed (0x, 0o, 0b) capability
// literal. Underscores may separate digits.
func ParseCapability(s string) (*big.Int, error) {
	c, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse %q", ErrInvalidCapability, s)
	}
	if c.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s is negative", ErrInvalidCapability, s)
	}
	if c.BitLen() > CapabilityBits {
		return nil, fmt.Errorf("%w: %s is wider than %d bits", ErrInvalidCapability, s, CapabilityBits)
	}
	return c, nil
}

// Option configures a decode.
type Option func(*options)

type options struct {
	tracer log.FieldLogger
}

// WithTracer logs the intermediate values of the bounds correction at debug
// level. Decoding is silent without a tracer.
func WithTracer(tracer log.FieldLogger) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// Decoded is a decoded capability: the structural fields in layout order
// followed by the computed Base, RepB, Limit, RepT and Exponent.
type Decoded struct {
	Version    SpecVersion
	Capability *big.Int
	Values     []FieldValue
}

// Decode decodes capability under version v.
func Decode(capability *big.Int, v SpecVersion, opts ...Option) (*Decoded, error) {
	spec, err := v.spec()
	if err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	codec := spec.bounds
	values := DecodeFields(capability, spec.layout)
	base, limit := codec.bounds(capability, o.tracer)
	exp := codec.exponent(capability)
	repB, repT := representableRange(base, exp, codec.mantissaWidth(), codec.maxExponent())

	values = append(values,
		computed(NameBase, base),
		computed(NameRepB, repB),
		computed(NameLimit, limit),
		computed(NameRepT, repT),
		computed(NameExponent, big.NewInt(int64(exp))),
	)

	return &Decoded{
		Version:    v,
		Capability: new(big.Int).Set(capability),
		Values:     values,
	}, nil
}

// DecodeNamed decodes capability under the version identified by name.
func DecodeNamed(capability *big.Int, name string, opts ...Option) (*Decoded, error) {
	v, err := ParseSpecVersion(name)
	if err != nil {
		return nil, err
	}
	return Decode(capability, v, opts...)
}

func computed(name string, value *big.Int) FieldValue {
	return FieldValue{Name: name, Value: value}
}

// Get returns the value named name.
func (d *Decoded) Get(name string) (FieldValue, bool) {
	for _, v := range d.Values {
		if v.Name == name {
			return v, true
		}
	}
	return FieldValue{}, false
}

// value looks name up among the computed entries only; the later layouts
// also have structural fields called Base and Limit.
func (d *Decoded) value(name string) *big.Int {
	for _, v := range d.Values {
		if v.Computed() && v.Name == name {
			return v.Value
		}
	}
	return nil
}

// Base returns the decoded base address.
func (d *Decoded) Base() *big.Int { return d.value(NameBase) }

// Limit returns the decoded limit; it may be 2^64.
func (d *Decoded) Limit() *big.Int { return d.value(NameLimit) }

// RepB returns the bottom of the representable range.
func (d *Decoded) RepB() *big.Int { return d.value(NameRepB) }

// RepT returns the top of the representable range.
func (d *Decoded) RepT() *big.Int { return d.value(NameRepT) }

// Exponent returns the exponent the bounds were decoded with.
func (d *Decoded) Exponent() int {
	return int(d.value(NameExponent).Int64())
}

// Fields returns the structural field values in layout order.
func (d *Decoded) Fields() []FieldValue {
	var fields []FieldValue
	for _, v := range d.Values {
		if !v.Computed() {
			fields = append(fields, v)
		}
	}
	return fields
}

// Computed returns the computed values in insertion order.
func (d *Decoded) Computed() []FieldValue {
	var values []FieldValue
	for _, v := range d.Values {
		if v.Computed() {
			values = append(values, v)
		}
	}
	return values
}
