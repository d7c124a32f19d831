package schema_test

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/pnsafonov/bitread/format/schema"
	"github.com/pnsafonov/bitread/pkg/decode"
	bitreaderrors "github.com/pnsafonov/bitread/pkg/errors"
	"github.com/pnsafonov/bitread/pkg/scalar"
)

var positionPayload = []byte{0xE8, 0x25, 0xF4, 0x9B, 0x9E, 0x87, 0x2B, 0x6A, 0x99, 0x2A, 0xAB}

func TestCompilePositionInactivity(t *testing.T) {
	f, err := os.Open("testdata/position_inactivity.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	p, err := schema.Compile(f)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "position_inactivity" || p.BitSize() != 88 {
		t.Errorf("unexpected program %s %d", p.Name(), p.BitSize())
	}

	r, err := p.Decode(positionPayload)
	if err != nil {
		t.Fatal(err)
	}
	expected := []decode.Entry{
		{Name: "last_fix_failed", Value: false},
		{Name: "latitude_degrees", Value: -8.33338737487793},
		{Name: "longitude_degrees", Value: -169.28500413894653},
		{Name: "in_trip", Value: true},
		{Name: "timestamp", Value: uint8(21)},
		{Name: "battery_critical", Value: false},
		{Name: "inactivity_indicator_alarm", Value: true},
		{Name: "inactivity_timer_minutes", Value: uint32(19636)},
		{Name: "battery_voltage_volts", Value: 4.844},
		{Name: "heading_degrees", Value: uint32(135)},
		{Name: "speed_kmh", Value: uint32(105)},
	}
	actual := r.Entries()
	if len(actual) != len(expected) {
		t.Fatalf("expected %d fields, got %d", len(expected), len(actual))
	}
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("expected %#v, got %#v", expected[i], actual[i])
		}
	}
}

func TestSchemaDescriptors(t *testing.T) {
	src := `
meta:
  id: rec
  bit-endian: be
seq:
  - id: flag
    type: bool
  - id: word
    type: u16
  - id: nibble
    bits: 4
  - id: spare
    type: u8
    skip: true
    default: 7
  - id: temp
    bits: 12
    type: i16
    as: f32
`
	ty, err := schema.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	s, err := ty.Schema()
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "rec" || s.BitOrder != "be" {
		t.Errorf("unexpected meta %q %q", s.Name, s.BitOrder)
	}

	testCases := []struct {
		bits int
		typ  scalar.Type
		skip bool
		def  any
		mapd bool
	}{
		{1, scalar.TypeBool, false, nil, false},
		{16, scalar.TypeU16, false, nil, false},
		{4, scalar.TypeUintAny, false, nil, false},
		{8, scalar.TypeU8, true, uint8(7), false},
		{12, scalar.TypeS16, false, nil, true},
	}
	if len(s.Fields) != len(testCases) {
		t.Fatalf("expected %d fields, got %d", len(testCases), len(s.Fields))
	}
	for i, tc := range testCases {
		f := s.Fields[i]
		if f.Bits != tc.bits || f.Type != tc.typ || f.Skip != tc.skip || f.Default != tc.def || (f.Map != nil) != tc.mapd {
			t.Errorf("field %d: unexpected %+v", i, f)
		}
	}

	p, err := decode.Compile(s)
	if err != nil {
		t.Fatal(err)
	}
	// msb: 1, 16 zero bits, 4 one bits, 12 one bits
	r, err := p.Decode([]byte{0x80, 0x00, 0x7f, 0xff, 0x80})
	if err != nil {
		t.Fatal(err)
	}
	expected := []decode.Entry{
		{Name: "flag", Value: true},
		{Name: "word", Value: uint16(0)},
		{Name: "nibble", Value: uint8(0xf)},
		{Name: "spare", Value: uint8(7)},
		{Name: "temp", Value: float32(-1)},
	}
	actual := r.Entries()
	for i := range expected {
		if actual[i] != expected[i] {
			t.Errorf("expected %#v, got %#v", expected[i], actual[i])
		}
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		line string
	}{
		{"unknown type", "seq:\n  - id: a\n    type: u7\n", "3: "},
		{"bad map", "seq:\n  - id: a\n    bits: 3\n    map: x +\n", "4: "},
		{"unknown key", "meta:\n  id: a\nfoo: 1\n", ""},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := schema.Parse(strings.NewReader(tc.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.line != "" && !strings.Contains(err.Error(), tc.line) {
				t.Errorf("expected line %q in %q", tc.line, err)
			}
		})
	}
}

func TestSchemaErrors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{"no id", "seq:\n  - bits: 3\n"},
		{"no bits", "seq:\n  - id: a\n    type: uint\n"},
		{"negative bits", "seq:\n  - id: a\n    bits: -3\n"},
		{"default without skip", "seq:\n  - id: a\n    bits: 3\n    default: 1\n"},
		{"bad default", "seq:\n  - id: a\n    type: u8\n    skip: true\n    default: abc\n"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ty, err := schema.Parse(strings.NewReader(tc.src))
			if err != nil {
				t.Fatal(err)
			}
			_, err = ty.Schema()
			var ve schema.ValueError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValueError, got %v", err)
			}
			if ve.Node.Line == 0 {
				t.Errorf("expected line number in %v", err)
			}
		})
	}
}

func TestCompileFloatWithoutMap(t *testing.T) {
	_, err := schema.Compile(strings.NewReader("seq:\n  - id: a\n    bits: 8\n    type: f64\n"))
	if !errors.Is(err, &bitreaderrors.Error{Phase: bitreaderrors.PhaseCompile, Kind: bitreaderrors.KindInvalidInput}) {
		t.Errorf("expected compile error, got %v", err)
	}
}

func TestCompileSkipDefault(t *testing.T) {
	p, err := schema.Compile(strings.NewReader("seq:\n  - id: flag\n    type: bool\n  - id: spare\n    type: u8\n    skip: true\n    default: 7\n"))
	if err != nil {
		t.Fatal(err)
	}
	r, err := p.Decode([]byte{0x01})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Get("spare"); v != uint8(7) {
		t.Errorf("expected uint8(7), got %#v", v)
	}
	if r.BitsRead() != 1 {
		t.Errorf("expected 1 bit read, got %d", r.BitsRead())
	}
}
