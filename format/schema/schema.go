//nolint:tagliatelle
package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/pnsafonov/bitread/format/ksexpr"
	"github.com/pnsafonov/bitread/pkg/scalar"
)

type ValueError struct {
	Node *yaml.Node
	Err  error
}

func (v ValueError) Unwrap() error { return v.Err }

func (v ValueError) Error() string {
	return fmt.Sprintf("%d: %s", v.Node.Line, v.Err)
}

func valueErrorf(n *yaml.Node, format string, a ...any) ValueError {
	return ValueError{
		Node: n,
		Err:  fmt.Errorf(format, a...),
	}
}

// meta:
//   id: <name>
//   title: <string>
//   endian: le | be | little | big   # advisory, does not change extraction
//   bit-order: lsb | msb             # bit 0 is the least or most significant bit
//   bit-endian: le | be              # kaitai spelling of bit-order
//
// seq:
//   - id: <name>
//     doc: <string>
//     bits: <int>                    # wire width, defaults to the width of type
//     type: bool | u8 | i32 | ...    # storage type, defaults to uint
//     map: <expr>                    # transform, x (or _) is the stored value
//     as: f64 | u32 | ...            # convert the result to type
//     skip: <bool>                   # read nothing, use default or zero value
//     default: <value>               # value of a skipped field

// Expr is a transform expression, parsed when the schema is read so syntax
// errors get line numbers.
type Expr struct {
	Str    string
	KSExpr ksexpr.Node
}

func (e *Expr) UnmarshalYAML(value *yaml.Node) error {
	if err := value.Decode(&e.Str); err != nil {
		return err
	}

	ke, err := ksexpr.Parse(e.Str)
	if err != nil {
		return valueErrorf(value, "failed to parse '%s': %s", e.Str, err)
	}
	e.KSExpr = ke

	return nil
}

type TypeName struct {
	Str  string
	Type scalar.Type
}

func (t *TypeName) UnmarshalYAML(value *yaml.Node) error {
	if err := value.Decode(&t.Str); err != nil {
		return err
	}
	st, ok := scalar.ParseType(t.Str)
	if !ok {
		return valueErrorf(value, "unknown type %q", t.Str)
	}
	t.Type = st
	return nil
}

type Meta struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Endian    string `yaml:"endian"`
	BitOrder  string `yaml:"bit-order"`
	BitEndian string `yaml:"bit-endian"`
}

type Field struct {
	ID      string    `yaml:"id"`
	Doc     string    `yaml:"doc"`
	Bits    *int      `yaml:"bits"`
	Type    *TypeName `yaml:"type"`
	Map     *Expr     `yaml:"map"`
	As      *TypeName `yaml:"as"`
	Skip    bool      `yaml:"skip"`
	Default yaml.Node `yaml:"default"`

	node *yaml.Node
}

func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	type ft Field
	var fv ft
	if err := value.Decode(&fv); err != nil {
		return err
	}
	*f = Field(fv)
	f.node = value
	return nil
}

type Type struct {
	Meta *Meta    `yaml:"meta"`
	Doc  string   `yaml:"doc"`
	Seq  []*Field `yaml:"seq"`
}

func Parse(r io.Reader) (*Type, error) {
	t := &Type{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil {
		return nil, err
	}

	return t, nil
}
