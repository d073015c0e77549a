package capability

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/sarchlab/capdecode/bitslice"
)

// FormatKind selects how a field value is rendered as a description.
type FormatKind uint8

// Field formatters.
const (
	FormatPlain       FormatKind = iota // No description; reports fall back to hex
	FormatPermissions                   // Comma-joined names of the set permission sub-fields
	FormatObjectType                    // Named object type, or the bare decimal value
)

// Field is a named, inclusive bit range [High:Low] within a capability.
type Field struct {
	Name string
	High int
	Low  int
	Kind FormatKind

	// Permissions is the sub-layout used by FormatPermissions, in
	// declaration order (high bit to low bit).
	Permissions []Field

	// ObjectTypes names the known object type codes for FormatObjectType.
	ObjectTypes map[uint64]string
}

// BitField declares a single-bit field.
func BitField(name string, bit int) Field {
	return Field{Name: name, High: bit, Low: bit}
}

// RangeField declares a plain multi-bit field.
func RangeField(name string, high, low int) Field {
	return Field{Name: name, High: high, Low: low}
}

// PermissionsField declares a permission bit-vector described by perms.
func PermissionsField(name string, high, low int, perms []Field) Field {
	return Field{Name: name, High: high, Low: low, Kind: FormatPermissions, Permissions: perms}
}

// ObjectTypeField declares an object type field described by names.
func ObjectTypeField(name string, high, low int, names map[uint64]string) Field {
	return Field{Name: name, High: high, Low: low, Kind: FormatObjectType, ObjectTypes: names}
}

// clone returns a copy of f that shares no slice or map with it.
func (f Field) clone() Field {
	f.Permissions = cloneLayout(f.Permissions)
	f.ObjectTypes = cloneNames(f.ObjectTypes)
	return f
}

// Width returns the number of bits covered by the field.
func (f Field) Width() int {
	return f.High - f.Low + 1
}

// IsBit reports whether the field is a single bit.
func (f Field) IsBit() bool {
	return f.High == f.Low
}

func (f Field) String() string {
	if f.IsBit() {
		return fmt.Sprintf("%s[%d]", f.Name, f.High)
	}
	return fmt.Sprintf("%s[%d:%d]", f.Name, f.High, f.Low)
}

// Extract returns the field's bits from x.
func (f Field) Extract(x *big.Int) *big.Int {
	return bitslice.SliceHL(x, f.High, f.Low)
}

// Describe renders a field value according to the field's format kind. Plain
// fields return the empty string.
func (f Field) Describe(value *big.Int) string {
	switch f.Kind {
	case FormatPermissions:
		return FormatPermissionBits(value, f.Permissions)
	case FormatObjectType:
		return FormatObjectTypeCode(value, f.ObjectTypes)
	default:
		return ""
	}
}

// FormatPermissionBits lists every non-zero sub-field of perms in declaration
// order. Single-bit sub-fields render as their name, wider ones as name=value.
func FormatPermissionBits(perms *big.Int, layout []Field) string {
	names := make([]string, 0, len(layout))
	for _, p := range layout {
		v := p.Extract(perms)
		if v.Sign() == 0 {
			continue
		}
		if p.IsBit() {
			names = append(names, p.Name)
		} else {
			names = append(names, fmt.Sprintf("%s=%s", p.Name, v.String()))
		}
	}
	return strings.Join(names, ", ")
}

// FormatObjectTypeCode renders "<name> (<n>)" for known codes and the bare
// decimal value otherwise.
func FormatObjectTypeCode(otype *big.Int, names map[uint64]string) string {
	if otype.IsUint64() {
		if name, ok := names[otype.Uint64()]; ok {
			return fmt.Sprintf("%s (%d)", name, otype.Uint64())
		}
	}
	return otype.String()
}

// FieldValue is a decoded field. Field is nil for computed entries such as
// Base and Limit.
type FieldValue struct {
	Field       *Field
	Name        string
	Value       *big.Int
	Description string
}

// Computed reports whether the value was derived rather than read from a
// bit range.
func (v FieldValue) Computed() bool {
	return v.Field == nil
}

// Text returns the description, or the value in hex when there is none.
func (v FieldValue) Text() string {
	if v.Description != "" {
		return v.Description
	}
	return fmt.Sprintf("%#x", v.Value)
}

func (v FieldValue) String() string {
	return fmt.Sprintf("%s=%s", v.Name, v.Value.String())
}

// DecodeFields extracts every field of layout from capability, in layout
// order. Each value carries its own copy of the field.
func DecodeFields(capability *big.Int, layout []Field) []FieldValue {
	values := make([]FieldValue, 0, len(layout))
	for _, field := range layout {
		f := field.clone()
		v := f.Extract(capability)
		values = append(values, FieldValue{
			Field:       &f,
			Name:        f.Name,
			Value:       v,
			Description: f.Describe(v),
		})
	}
	return values
}
