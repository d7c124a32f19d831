// Package output encodes decoded records.
package output

import (
	"encoding/json"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/pnsafonov/bitread/internal/config"
	"github.com/pnsafonov/bitread/pkg/decode"
	"github.com/pnsafonov/bitread/pkg/errors"
)

// cborEncMode uses core deterministic encoding, map keys are sorted.
var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("output: cbor encoder: " + err.Error())
	}
}

// IsTerminal reports if w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

type Encoder struct {
	w      io.Writer
	format string
	// Pretty indents json.
	Pretty bool
}

// NewEncoder returns an encoder for one of the config output formats.
func NewEncoder(w io.Writer, format string) (*Encoder, error) {
	switch format {
	case config.OutputJSON, config.OutputYAML, config.OutputTOML, config.OutputCBOR:
	default:
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Path("output").
			Detail("format %q", format).
			Build()
	}
	return &Encoder{w: w, format: format}, nil
}

// Encode writes v, a *decode.Record or a query result. Json and yaml keep
// record field order, toml and cbor sort keys.
func (e *Encoder) Encode(v any) error {
	switch e.format {
	case config.OutputJSON:
		var b []byte
		var err error
		if e.Pretty {
			b, err = json.MarshalIndent(v, "", "  ")
		} else {
			b, err = json.Marshal(v)
		}
		if err != nil {
			return err
		}
		_, err = e.w.Write(append(b, '\n'))
		return err
	case config.OutputYAML:
		ye := yaml.NewEncoder(e.w)
		ye.SetIndent(2)
		if err := ye.Encode(v); err != nil {
			return err
		}
		return ye.Close()
	case config.OutputTOML:
		if r, ok := v.(*decode.Record); ok {
			v = r.Map()
		}
		return toml.NewEncoder(e.w).Encode(v)
	case config.OutputCBOR:
		if r, ok := v.(*decode.Record); ok {
			v = r.Map()
		}
		b, err := cborEncMode.Marshal(v)
		if err != nil {
			return err
		}
		_, err = e.w.Write(b)
		return err
	default:
		panic("unreachable")
	}
}
