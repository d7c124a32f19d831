package output

import (
	"math"
	"math/big"

	"github.com/wader/gojq"

	"github.com/pnsafonov/bitread/pkg/decode"
	"github.com/pnsafonov/bitread/pkg/errors"
)

// Query is a compiled jq expression run against records.
type Query struct {
	src  string
	code *gojq.Code
}

// CompileQuery parses and compiles a jq expression.
func CompileQuery(src string) (*Query, error) {
	q, err := gojq.Parse(src)
	if err != nil {
		return nil, errors.ParseFailed("query", err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, errors.ParseFailed("query", err)
	}
	return &Query{src: src, code: code}, nil
}

func (q *Query) String() string { return q.src }

// Run returns all query outputs for r. The record is the query input as an
// object.
func (q *Query) Run(r *decode.Record) ([]any, error) {
	var vs []any
	iter := q.code.Run(jqValue(r.Map()))
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, errors.New(errors.PhaseQuery, errors.KindInvalidInput).
				Path(r.Name).
				Detail("query %s failed", q.src).
				Cause(err).
				Build()
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// jqValue converts field values to the number types jq works with.
func jqValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = jqValue(e)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = jqValue(e)
		}
		return s
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint:
		return jqUint(uint64(v))
	case uint64:
		return jqUint(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}

func jqUint(v uint64) any {
	if v > math.MaxInt64 {
		return new(big.Int).SetUint64(v)
	}
	return int(v)
}
