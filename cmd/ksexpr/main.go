// Command ksexpr lexes, parses and evaluates field transform expressions.
//
//	ksexpr --x 42 '3.5 + x * 0.032'
//	ksexpr --parse 'x * (180.0 / (1 << 23))'
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/pnsafonov/bitread/format/ksexpr"
	"github.com/pnsafonov/bitread/pkg/scalar"
)

// used to make json numbers into int/float64
func normalizeNumbers(a any) any {
	switch a := a.(type) {
	case map[string]any:
		for k, v := range a {
			a[k] = normalizeNumbers(v)
		}
		return a
	case []any:
		for k, v := range a {
			a[k] = normalizeNumbers(v)
		}
		return a
	case json.Number:
		if strings.ContainsAny(a.String(), ".eE") {
			f, _ := a.Float64()
			return f
		}
		i, err := a.Int64()
		if err != nil {
			f, _ := a.Float64()
			return f
		}
		return i
	default:
		return a
	}
}

type JSONVar struct {
	V any
}

func (v *JSONVar) String() string {
	if v.V != nil {
		b, _ := json.Marshal(v.V)
		return string(b)
	}
	return ""
}

func (v *JSONVar) Set(s string) error {
	jd := json.NewDecoder(bytes.NewBufferString(s))
	jd.UseNumber()
	if err := jd.Decode(&v.V); err != nil {
		return err
	}
	v.V = normalizeNumbers(v.V)
	return nil
}

func (v *JSONVar) Type() string { return "json" }

func main() {
	lexFlag := pflag.Bool("lex", false, "Lex expression")
	parseFlag := pflag.Bool("parse", false, "Parse expression")
	evalFlag := pflag.Bool("eval", false, "Eval expression")
	asFlag := pflag.String("as", "", "Convert result to type (u8, i32, f64, ...)")
	var xValue JSONVar
	pflag.Var(&xValue, "x", "Field value bound to x and _ (JSON)")

	pflag.Parse()
	exprStr := pflag.Arg(0)

	// eval by default if no other flag is given
	*evalFlag = *evalFlag || (!*lexFlag && !*parseFlag)

	if exprStr == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTS] EXPR\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(1)
	}

	if *lexFlag {
		for _, t := range ksexpr.Lex(exprStr) {
			fmt.Fprintf(
				os.Stderr,
				"%s %s (%d-%d) %v\n",
				t.Name, t.Token.Str, t.Token.Span.Start, t.Token.Span.Stop, t.Err,
			)
		}
	}
	if *parseFlag || *evalFlag {
		var out *scalar.Type
		if *asFlag != "" {
			t, ok := scalar.ParseType(*asFlag)
			if !ok {
				fmt.Fprintf(os.Stderr, "unknown type %q\n", *asFlag)
				os.Exit(1)
			}
			t = t.Resolve(64)
			out = &t
		}

		tr, err := ksexpr.NewTransform(exprStr, out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse: %s\n", err)
			os.Exit(1)
		}

		if *parseFlag {
			je := json.NewEncoder(os.Stderr)
			je.SetIndent("", "  ")
			if err := je.Encode(tr.Node); err != nil {
				fmt.Fprintf(os.Stderr, "%s", err)
				os.Exit(1)
			}
		}
		if *evalFlag {
			v, err := tr.MapScalar(xValue.V)
			if err != nil {
				fmt.Fprintf(os.Stderr, "eval: %s\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stdout, "%#v\n", v)
		}
	}
}
