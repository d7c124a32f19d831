package output_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/pnsafonov/bitread/format/tracker"
	"github.com/pnsafonov/bitread/internal/output"
	"github.com/pnsafonov/bitread/pkg/decode"
	bitreaderrors "github.com/pnsafonov/bitread/pkg/errors"
)

var payload = []byte{0xE8, 0x25, 0xF4, 0x9B, 0x9E, 0x87, 0x2B, 0x6A, 0x99, 0x2A, 0xAB}

func diff(t *testing.T, expected, actual string) {
	t.Helper()
	if expected == actual {
		return
	}
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Errorf("%s", d)
}

func position(t *testing.T) *decode.Record {
	t.Helper()
	r, err := decode.MustCompile(tracker.PositionInactivitySchema()).Decode(payload)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func encode(t *testing.T, format string, pretty bool, v any) string {
	t.Helper()
	var buf bytes.Buffer
	e, err := output.NewEncoder(&buf, format)
	if err != nil {
		t.Fatal(err)
	}
	e.Pretty = pretty
	if err := e.Encode(v); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestEncodeJSON(t *testing.T) {
	r := position(t)
	diff(t,
		`{"last_fix_failed":false,"latitude_degrees":-8.33338737487793,"longitude_degrees":-169.28500413894653,"in_trip":true,"timestamp":21,"battery_critical":false,"inactivity_indicator_alarm":true,"inactivity_timer_minutes":19636,"battery_voltage_volts":4.844,"heading_degrees":135,"speed_kmh":105}`+"\n",
		encode(t, "json", false, r))

	pretty := encode(t, "json", true, r)
	if !strings.HasPrefix(pretty, "{\n  \"last_fix_failed\": false,\n") {
		t.Errorf("expected indented json, got %s", pretty)
	}
}

func TestEncodeYAML(t *testing.T) {
	actual := encode(t, "yaml", false, position(t))
	expected := `last_fix_failed: false
latitude_degrees: -8.33338737487793
longitude_degrees: -169.28500413894653
in_trip: true
timestamp: 21
battery_critical: false
inactivity_indicator_alarm: true
inactivity_timer_minutes: 19636
battery_voltage_volts: 4.844
heading_degrees: 135
speed_kmh: 105
`
	diff(t, expected, actual)
}

func TestEncodeTOML(t *testing.T) {
	actual := encode(t, "toml", false, position(t))
	for _, line := range []string{"in_trip = true", "speed_kmh = 105", "timestamp = 21"} {
		if !strings.Contains(actual, line+"\n") {
			t.Errorf("expected %q in %s", line, actual)
		}
	}
	if strings.Index(actual, "battery_critical") > strings.Index(actual, "speed_kmh") {
		t.Errorf("expected sorted keys in %s", actual)
	}
}

func TestEncodeCBOR(t *testing.T) {
	b := encode(t, "cbor", false, position(t))
	var m map[string]any
	if err := cbor.Unmarshal([]byte(b), &m); err != nil {
		t.Fatal(err)
	}
	if m["speed_kmh"] != uint64(105) || m["in_trip"] != true || m["latitude_degrees"] != -8.33338737487793 {
		t.Errorf("unexpected %v", m)
	}
	if encode(t, "cbor", false, position(t)) != b {
		t.Error("expected deterministic encoding")
	}
}

func TestEncoderUnknownFormat(t *testing.T) {
	_, err := output.NewEncoder(&bytes.Buffer{}, "xml")
	if !errors.Is(err, &bitreaderrors.Error{Kind: bitreaderrors.KindUnsupported}) {
		t.Errorf("expected unsupported, got %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	if output.IsTerminal(&bytes.Buffer{}) {
		t.Error("buffer is not a terminal")
	}
}

func TestQuery(t *testing.T) {
	r := position(t)
	testCases := []struct {
		q        string
		expected string
	}{
		{`.speed_kmh`, "105\n"},
		{`.timestamp, .heading_degrees`, "21\n135\n"},
		{`{speed: .speed_kmh, trip: .in_trip}`, `{"speed":105,"trip":true}` + "\n"},
		{`.inactivity_timer_minutes / 60 | floor`, "327\n"},
		{`[to_entries[] | select(.value == true) | .key] | sort`, `["in_trip","inactivity_indicator_alarm"]` + "\n"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.q, func(t *testing.T) {
			q, err := output.CompileQuery(tc.q)
			if err != nil {
				t.Fatal(err)
			}
			vs, err := q.Run(r)
			if err != nil {
				t.Fatal(err)
			}
			var sb strings.Builder
			for _, v := range vs {
				sb.WriteString(encode(t, "json", false, v))
			}
			diff(t, tc.expected, sb.String())
		})
	}
}

func TestQueryErrors(t *testing.T) {
	if _, err := output.CompileQuery(".["); !errors.Is(err, &bitreaderrors.Error{Kind: bitreaderrors.KindInvalidInput}) {
		t.Errorf("expected parse error, got %v", err)
	}

	q, err := output.CompileQuery(".speed_kmh[0]")
	if err != nil {
		t.Fatal(err)
	}
	_, err = q.Run(position(t))
	if !errors.Is(err, &bitreaderrors.Error{Phase: bitreaderrors.PhaseQuery, Kind: bitreaderrors.KindInvalidInput}) {
		t.Errorf("expected query error, got %v", err)
	}
	if errors.Is(err, bitreaderrors.ErrTransform) {
		t.Errorf("query error reported as transform failure: %v", err)
	}
}
