package decode

import (
	"go.uber.org/zap"

	"github.com/pnsafonov/bitread/pkg/bitio"
	"github.com/pnsafonov/bitread/pkg/errors"
	"github.com/pnsafonov/bitread/pkg/scalar"
)

type StepKind int

const (
	StepRead StepKind = iota
	StepSkip
)

func (k StepKind) String() string {
	if k == StepSkip {
		return "skip"
	}
	return "read"
}

// Step is one compiled field. Type is resolved to a concrete storage width.
type Step struct {
	Kind    StepKind
	Name    string
	Bits    int
	Type    scalar.Type
	Map     scalar.Mapper
	Default any
}

// Program is a compiled schema. It is immutable and safe for concurrent use.
type Program struct {
	name    string
	policy  bitio.Policy
	steps   []Step
	bitSize int64
}

func (p *Program) Name() string         { return p.name }
func (p *Program) Policy() bitio.Policy { return p.policy }

// BitSize is the number of bits a successful decode consumes.
func (p *Program) BitSize() int64 { return p.bitSize }

// Steps returns a copy of the compiled steps.
func (p *Program) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Compile resolves s into a Program. Buffer bounds are not known here and are
// checked by Decode.
func Compile(s Schema) (*Program, error) {
	p := &Program{
		name:   s.Name,
		policy: bitio.ResolvePolicy(s.Endian, s.BitOrder),
		steps:  make([]Step, 0, len(s.Fields)),
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return nil, errors.InvalidInput(errors.PhaseCompile, nil, "field without name").WithPath(s.Name)
		}
		if _, ok := seen[f.Name]; ok {
			return nil, errors.New(errors.PhaseCompile, errors.KindInvalidInput).
				Path(f.Name).
				Detail("duplicate field").
				Build().
				WithPath(s.Name)
		}
		seen[f.Name] = struct{}{}

		st, err := compileField(f)
		if err != nil {
			return nil, err.WithPath(s.Name)
		}
		p.steps = append(p.steps, st)
		if st.Kind == StepRead {
			p.bitSize += int64(st.Bits)
		}
	}

	Logger().Debug("compiled schema",
		zap.String("name", p.name),
		zap.Stringer("policy", p.policy),
		zap.Int("steps", len(p.steps)),
		zap.Int64("bits", p.bitSize),
	)

	return p, nil
}

// MustCompile is like Compile but panics on error. For schemas known at
// init time.
func MustCompile(s Schema) *Program {
	p, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return p
}

func compileField(f Field) (Step, *errors.Error) {
	t := f.Type.Resolve(f.Bits)

	if f.Skip {
		def := f.Default
		if def == nil {
			def = t.Zero()
		}
		return Step{Kind: StepSkip, Name: f.Name, Type: t, Default: def}, nil
	}

	if f.Bits < 0 || f.Bits > bitio.MaxBits {
		return Step{}, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			Path(f.Name).
			Detail("width %d bits, range is 0-%d", f.Bits, bitio.MaxBits).
			Value(f.Bits).
			Build()
	}
	if t.Kind == scalar.Float && f.Map == nil {
		return Step{}, errors.InvalidInput(errors.PhaseCompile, []string{f.Name}, "float field needs a transform")
	}
	if tm, ok := f.Map.(scalar.TypedMapper); ok && tm.In() != t.GoType() {
		return Step{}, errors.TypeMismatch(errors.PhaseCompile, []string{f.Name}, t.GoType().String(), tm.In().String())
	}

	return Step{Kind: StepRead, Name: f.Name, Bits: f.Bits, Type: t, Map: f.Map}, nil
}
