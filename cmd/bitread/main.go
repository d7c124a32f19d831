// Command bitread decodes bit-packed payloads with registered formats or YAML
// schemas.
//
//	bitread -f position_inactivity E825F49B9E872B6A992AAB
//	bitread -s tracker.yaml --input-encoding base64 -o yaml 6CX0m56HK2qZKqs=
//	bitread -f position_inactivity -q .speed_kmh E825F49B9E872B6A992AAB
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pnsafonov/bitread/format"
	_ "github.com/pnsafonov/bitread/format/tracker"
	"github.com/pnsafonov/bitread/internal/config"
	"github.com/pnsafonov/bitread/internal/input"
	"github.com/pnsafonov/bitread/internal/output"
	"github.com/pnsafonov/bitread/pkg/decode"
)

type options struct {
	configPath string
	formatName string
	schemaPath string
	inputPath  string
	query      string
	list       bool
	verbose    bool
}

func newLogger(w io.Writer, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	fs := pflag.NewFlagSet("bitread", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	cfg := config.Default()
	fs.StringVar(&opts.configPath, "config", "", "TOML config file")
	fs.StringVarP(&opts.formatName, "format", "f", "", "Registered format name")
	fs.StringVarP(&opts.schemaPath, "schema", "s", "", "YAML schema file")
	fs.StringVarP(&opts.inputPath, "input", "i", "", "Read payload from file, - for stdin")
	fs.StringVarP(&opts.query, "query", "q", "", "jq expression applied to each record")
	fs.BoolVar(&opts.list, "list", false, "List registered formats")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format (json, yaml, toml, cbor)")
	fs.StringVar(&cfg.InputEncoding, "input-encoding", cfg.InputEncoding, "Payload encoding (hex, base64, raw)")
	fs.StringVar(&cfg.Decompress, "decompress", cfg.Decompress, "Payload decompression (none, snappy)")
	fs.StringVar(&cfg.BitOrder, "bit-order", "", "Override format bit order (lsb, msb)")
	fs.StringVar(&cfg.Endian, "endian", "", "Override format endian (little, big)")
	fs.StringSliceVar(&cfg.SchemaDirs, "schema-dir", nil, "Register YAML schemas in directory")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: bitread [OPTS] [PAYLOAD...]\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "bitread: %s\n", err)
		return 1
	}

	if opts.configPath != "" {
		fileCfg, err := config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "bitread: %s\n", err)
			return 1
		}
		cfg = mergeFlags(fs, fileCfg, cfg)
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "bitread: %s\n", err)
		return 1
	}

	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "bitread: %s\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	decode.SetLogger(logger.Named("decode"))

	if err := execute(opts, cfg, fs.Args(), stdin, stdout, logger); err != nil {
		logger.Debug("failed", zap.Error(err))
		fmt.Fprintf(stderr, "bitread: %s\n", err)
		return 1
	}
	return 0
}

// mergeFlags returns the file config with explicitly given flags on top.
func mergeFlags(fs *pflag.FlagSet, fileCfg config.Config, flagCfg config.Config) config.Config {
	c := fileCfg
	if fs.Changed("output") {
		c.Output = flagCfg.Output
	}
	if fs.Changed("input-encoding") {
		c.InputEncoding = flagCfg.InputEncoding
	}
	if fs.Changed("decompress") {
		c.Decompress = flagCfg.Decompress
	}
	if fs.Changed("bit-order") {
		c.BitOrder = flagCfg.BitOrder
	}
	if fs.Changed("endian") {
		c.Endian = flagCfg.Endian
	}
	if fs.Changed("schema-dir") {
		c.SchemaDirs = append(c.SchemaDirs, flagCfg.SchemaDirs...)
	}
	return c
}

func program(opts options, cfg config.Config) (*decode.Program, error) {
	var f *format.Format
	var err error
	switch {
	case opts.schemaPath != "" && opts.formatName != "":
		return nil, fmt.Errorf("--schema and --format are exclusive")
	case opts.schemaPath != "":
		f, err = format.FromFile(opts.schemaPath)
	case opts.formatName != "":
		f, err = format.Get(opts.formatName)
	default:
		return nil, fmt.Errorf("no format, use --format or --schema (--list shows formats)")
	}
	if err != nil {
		return nil, err
	}

	if cfg.BitOrder == "" && cfg.Endian == "" {
		return f.Program()
	}
	if f.CompileFn != nil {
		return nil, fmt.Errorf("%s: format does not support bit order override", f.Name)
	}
	s := f.Schema
	if cfg.BitOrder != "" {
		s.BitOrder = cfg.BitOrder
	}
	if cfg.Endian != "" {
		s.Endian = cfg.Endian
	}
	return decode.Compile(s)
}

func payloads(opts options, args []string, stdin io.Reader) ([][]byte, error) {
	var ps [][]byte
	switch opts.inputPath {
	case "":
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		ps = append(ps, b)
	default:
		b, err := os.ReadFile(opts.inputPath)
		if err != nil {
			return nil, err
		}
		ps = append(ps, b)
	}
	for _, a := range args {
		ps = append(ps, []byte(a))
	}
	if len(ps) == 0 {
		return nil, fmt.Errorf("no payload, give PAYLOAD arguments or --input")
	}
	return ps, nil
}

func execute(opts options, cfg config.Config, args []string, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	for _, dir := range cfg.SchemaDirs {
		if err := format.RegisterDir(dir); err != nil {
			return err
		}
	}

	if opts.list {
		for _, name := range format.Names() {
			f, err := format.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s\t%s\n", name, f.Description)
		}
		return nil
	}

	prog, err := program(opts, cfg)
	if err != nil {
		return err
	}
	logger.Debug("program",
		zap.String("name", prog.Name()),
		zap.Stringer("policy", prog.Policy()),
		zap.Int64("bits", prog.BitSize()),
	)

	var query *output.Query
	if opts.query != "" {
		if query, err = output.CompileQuery(opts.query); err != nil {
			return err
		}
	}
	enc, err := output.NewEncoder(stdout, cfg.Output)
	if err != nil {
		return err
	}
	enc.Pretty = output.IsTerminal(stdout)

	ps, err := payloads(opts, args, stdin)
	if err != nil {
		return err
	}
	for i, p := range ps {
		buf, err := input.Decode(p, cfg.InputEncoding, cfg.Decompress)
		if err != nil {
			return fmt.Errorf("payload %d: %w", i, err)
		}
		r, err := prog.Decode(buf)
		if err != nil {
			return fmt.Errorf("payload %d: %w", i, err)
		}
		if r.BitsRead() < int64(len(buf))*8 {
			logger.Debug("trailing bits",
				zap.Int("payload", i),
				zap.Int64("bits", int64(len(buf))*8-r.BitsRead()),
			)
		}

		if query == nil {
			if err := enc.Encode(r); err != nil {
				return err
			}
			continue
		}
		vs, err := query.Run(r)
		if err != nil {
			return err
		}
		for _, v := range vs {
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
	}
	return nil
}
