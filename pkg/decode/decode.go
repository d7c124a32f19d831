package decode

import (
	"reflect"

	"github.com/mitchellh/copystructure"
	"go.uber.org/zap"

	"github.com/pnsafonov/bitread/pkg/bitio"
	"github.com/pnsafonov/bitread/pkg/errors"
	"github.com/pnsafonov/bitread/pkg/scalar"
)

// Decode runs the program over buf. buf is only read and not retained by the
// returned record.
func (p *Program) Decode(buf []byte) (*Record, error) {
	c := bitio.NewCursor(buf)
	r := newRecord(p.name, len(p.steps))
	order := p.policy.BitOrder

	for i := range p.steps {
		s := &p.steps[i]
		v, err := s.exec(c, order)
		if err != nil {
			err = err.WithPath(p.name)
			Logger().Debug("decode failed",
				zap.String("name", p.name),
				zap.String("field", s.Name),
				zap.Int64("pos", c.Pos()),
				zap.Error(err),
			)
			return nil, err
		}
		r.add(s.Name, v)
	}
	r.bitsRead = c.Pos()

	Logger().Debug("decoded",
		zap.String("name", p.name),
		zap.Int("fields", r.Len()),
		zap.Int64("bits", r.bitsRead),
		zap.Int64("bits_left", c.BitsLeft()),
	)

	return r, nil
}

func (s *Step) exec(c *bitio.Cursor, order bitio.BitOrder) (any, *errors.Error) {
	if s.Kind == StepSkip {
		v, err := copyValue(s.Default)
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
				Path(s.Name).
				Detail("copy default").
				Cause(err).
				Build()
		}
		return v, nil
	}

	v, err := s.read(c, order)
	if err != nil {
		return nil, asError(err).WithPath(s.Name)
	}

	if s.Map != nil {
		mv, err := s.Map.MapScalar(v)
		if err != nil {
			if e, ok := err.(*errors.Error); ok && e.Kind == errors.KindTransformFailure {
				return nil, e.WithPath(s.Name)
			}
			return nil, errors.TransformFailed([]string{s.Name}, err)
		}
		v = mv
	}

	return v, nil
}

func (s *Step) read(c *bitio.Cursor, order bitio.BitOrder) (any, error) {
	switch {
	case s.Bits == 0:
		return s.Type.Zero(), nil
	case s.Type.Kind == scalar.Bool && s.Bits == 1:
		return c.ReadBool(order)
	default:
		raw, err := c.ReadBits(s.Bits, order)
		if err != nil {
			return nil, err
		}
		return s.Type.Cast(raw, s.Bits), nil
	}
}

func asError(err error) *errors.Error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	return errors.New(errors.PhaseDecode, errors.KindInvalidInput).Cause(err).Build()
}

// copyValue deep copies composite defaults so records never share memory with
// the program.
func copyValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Struct, reflect.Array, reflect.Interface:
		return copystructure.Copy(v)
	default:
		return v, nil
	}
}
