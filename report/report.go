// Package report renders decoded capabilities.
//
// The text form is a fixed-layout bit table: the capability in hex, a ruler
// of nibble indices, the raw nibbles and bits, one bar per structural field
// and the computed values. JSON and YAML render the same content as a
// document for tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/capdecode/bitslice"
	"github.com/sarchlab/capdecode/capability"
)

// Format selects a report encoding.
type Format string

// Report formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
}

const (
	nibbles      = 32
	columnWidth  = 5
	topBit       = capability.CapabilityBits - 1
	minHexDigits = 17
)

// Text renders d as the bit-table report. The output ends with a newline.
func Text(d *capability.Decoded) string {
	c := d.Capability
	var sb strings.Builder

	sb.WriteString("0x" + leftPad(c.Text(16), minHexDigits, '0') + "\n")

	sb.WriteString("  ")
	for x := nibbles; x > 0; x-- {
		fmt.Fprintf(&sb, "%5d", (x-1)*4)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", columnWidth*nibbles+2) + "\n")

	fmt.Fprintf(&sb, " %x", bitslice.SliceLW(c, nibbles*4, 4).Uint64())
	for x := nibbles; x > 0; x-- {
		fmt.Fprintf(&sb, "    %x", bitslice.SliceLW(c, (x-1)*4, 4).Uint64())
	}
	sb.WriteString("\n")

	sb.WriteString(" ")
	for x := capability.CapabilityBits; x > 0; x-- {
		if x%4 == 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%d", bitslice.Bit(c, x-1))
	}
	sb.WriteString("\n")

	for _, v := range byPosition(d.Fields()) {
		writeFieldBar(&sb, v)
	}
	writeComputed(&sb, d.Computed())

	return sb.String()
}

// byPosition orders fields by descending (high, low). Fields sharing a bit
// range keep only the last declared one.
func byPosition(values []capability.FieldValue) []capability.FieldValue {
	type span struct{ high, low int }
	index := map[span]int{}
	var out []capability.FieldValue
	for _, v := range values {
		key := span{v.Field.High, v.Field.Low}
		if i, ok := index[key]; ok {
			out[i] = v
			continue
		}
		index[key] = len(out)
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Field, out[j].Field
		if a.High != b.High {
			return a.High > b.High
		}
		return a.Low > b.Low
	})
	return out
}

// column maps a bit index to its character offset in the bit row, which has
// a separator every four bits.
func column(bit int) int {
	return bit + bit/4
}

func writeFieldBar(sb *strings.Builder, v capability.FieldValue) {
	f := v.Field
	pad := topBit - f.High
	if pad > 0 {
		pad += pad/4 + 2
	} else {
		pad++
	}
	width := column(f.High) - column(f.Low) + 1

	sb.WriteString(strings.Repeat(" ", pad))
	switch {
	case width > 2:
		sb.WriteString("|" + strings.Repeat("-", width-2) + "| ")
	case width == 2:
		sb.WriteString("||")
	default:
		sb.WriteString("|")
	}
	sb.WriteString(" " + v.Name + " " + v.Text() + "\n")
}

func writeComputed(sb *strings.Builder, values []capability.FieldValue) {
	type line struct{ name, text string }
	lines := make([]line, 0, len(values))
	nameWidth, hexWidth := 0, 0
	for _, v := range values {
		l := line{v.Name, v.Text()}
		lines = append(lines, l)
		nameWidth = max(nameWidth, len(l.name))
		if strings.HasPrefix(l.text, "0x") {
			hexWidth = max(hexWidth, len(l.text))
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].name != lines[j].name {
			return lines[i].name < lines[j].name
		}
		return lines[i].text < lines[j].text
	})

	for _, l := range lines {
		sb.WriteString(rightPad(l.name, nameWidth, ' ') + " ")
		if strings.HasPrefix(l.text, "0x") {
			sb.WriteString("0x" + leftPad(l.text[2:], hexWidth-2, '0'))
		} else {
			sb.WriteString(l.text)
		}
		sb.WriteString("\n")
	}
}

func leftPad(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(pad), width-len(s)) + s
}

func rightPad(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(string(pad), width-len(s))
}

// Document is the structured form of a decoded capability.
type Document struct {
	Capability string       `json:"capability" yaml:"capability"`
	Version    string       `json:"version" yaml:"version"`
	Fields     []FieldEntry `json:"fields" yaml:"fields"`
	Base       string       `json:"base" yaml:"base"`
	Limit      string       `json:"limit" yaml:"limit"`
	RepB       string       `json:"rep_b" yaml:"rep_b"`
	RepT       string       `json:"rep_t" yaml:"rep_t"`
	Exponent   int          `json:"exponent" yaml:"exponent"`
}

// FieldEntry is one structural field of a Document.
type FieldEntry struct {
	Name        string `json:"name" yaml:"name"`
	High        int    `json:"high" yaml:"high"`
	Low         int    `json:"low" yaml:"low"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

func hex(x *big.Int) string {
	return fmt.Sprintf("%#x", x)
}

// NewDocument builds the structured form of d. Fields keep layout order.
func NewDocument(d *capability.Decoded) *Document {
	doc := &Document{
		Capability: hex(d.Capability),
		Version:    d.Version.String(),
		Base:       hex(d.Base()),
		Limit:      hex(d.Limit()),
		RepB:       hex(d.RepB()),
		RepT:       hex(d.RepT()),
		Exponent:   d.Exponent(),
	}
	for _, v := range d.Fields() {
		doc.Fields = append(doc.Fields, FieldEntry{
			Name:        v.Name,
			High:        v.Field.High,
			Low:         v.Field.Low,
			Value:       hex(v.Value),
			Description: v.Description,
		})
	}
	return doc
}

// Write renders d to w in the given format.
func Write(w io.Writer, d *capability.Decoded, format Format) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(NewDocument(d), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(NewDocument(d))
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = w.Write(data)
		return err
	case FormatText:
		_, err := fmt.Fprintln(w, Text(d))
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
