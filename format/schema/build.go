package schema

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pnsafonov/bitread/format/ksexpr"
	"github.com/pnsafonov/bitread/pkg/decode"
	"github.com/pnsafonov/bitread/pkg/scalar"
)

// Schema builds field descriptors. Meta values are passed on as is, unknown
// endian or bit order values fall back to the defaults when compiled.
func (t *Type) Schema() (decode.Schema, error) {
	var s decode.Schema

	if t.Meta != nil {
		s.Name = t.Meta.ID
		s.Endian = t.Meta.Endian
		s.BitOrder = t.Meta.BitOrder
		if s.BitOrder == "" {
			s.BitOrder = t.Meta.BitEndian
		}
	}

	for _, f := range t.Seq {
		df, err := f.descriptor()
		if err != nil {
			return decode.Schema{}, err
		}
		s.Fields = append(s.Fields, df)
	}

	return s, nil
}

func (f *Field) errorf(format string, a ...any) error {
	n := f.node
	if n == nil {
		n = &yaml.Node{}
	}
	return valueErrorf(n, format, a...)
}

func (f *Field) descriptor() (decode.Field, error) {
	if f.ID == "" {
		return decode.Field{}, f.errorf("field without id")
	}

	df := decode.Field{
		Name: f.ID,
		Type: scalar.TypeUintAny,
		Skip: f.Skip,
	}
	if f.Type != nil {
		df.Type = f.Type.Type
	}

	switch {
	case f.Bits != nil:
		df.Bits = *f.Bits
	case df.Type.Kind == scalar.Bool:
		df.Bits = 1
	case df.Type.BitSize != 0:
		df.Bits = df.Type.BitSize
	case !f.Skip:
		return decode.Field{}, f.errorf("%s: bits is required for type %s", f.ID, df.Type)
	}
	if df.Bits < 0 {
		return decode.Field{}, f.errorf("%s: negative bits %d", f.ID, df.Bits)
	}

	var out *scalar.Type
	if f.As != nil {
		at := f.As.Type.Resolve(64)
		out = &at
	}

	switch {
	case f.Map != nil:
		df.Map = &ksexpr.Transform{Str: f.Map.Str, Node: f.Map.KSExpr, Out: out}
	case out != nil:
		df.Map = scalar.As(*out)
	}

	if f.Default.Kind != 0 {
		if !f.Skip {
			return decode.Field{}, f.errorf("%s: default without skip", f.ID)
		}
		var v any
		if err := f.Default.Decode(&v); err != nil {
			return decode.Field{}, ValueError{Node: &f.Default, Err: err}
		}
		dt := df.Type.Resolve(df.Bits)
		if out != nil {
			dt = *out
		}
		cv, err := dt.Convert(v)
		if err != nil {
			return decode.Field{}, ValueError{Node: &f.Default, Err: err}
		}
		df.Default = cv
	}

	return df, nil
}

// Compile parses a YAML schema and compiles it.
func Compile(r io.Reader) (*decode.Program, error) {
	t, err := Parse(r)
	if err != nil {
		return nil, err
	}
	s, err := t.Schema()
	if err != nil {
		return nil, err
	}
	return decode.Compile(s)
}
