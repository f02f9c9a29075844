package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/forcebit/uriquery-go/pkg/codec"
	"github.com/forcebit/uriquery-go/pkg/lexer"
	"github.com/forcebit/uriquery-go/pkg/query"
)

// maxLineLength bounds a single stdin line.
const maxLineLength = 1 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// app holds the state shared by all subcommands.
type app struct {
	logLevel  string
	strict    bool
	maxParams int
	maxInput  int

	logger *zap.Logger
}

func newRootCommand(a *app) *cobra.Command {
	defaults := lexer.DefaultLimits()

	root := &cobra.Command{
		Use:           "uriquery",
		Short:         "Normalize, decode, and encode URI query strings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			logger, err := newLogger(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&a.strict, "strict", false, "reject malformed percent-encoding")
	flags.IntVar(&a.maxParams, "max-params", defaults.MaxParameters, "maximum parameters per query (0 disables)")
	flags.IntVar(&a.maxInput, "max-input", defaults.MaxInputLength, "maximum query length in bytes (0 disables)")

	root.AddCommand(
		newNormalizeCommand(a),
		newDecodeCommand(a),
		newEncodeCommand(a),
	)
	return root
}

func newNormalizeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [QUERY...]",
		Short: "Print the canonical form of each query",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.eachQuery(cmd, args, func(text string) error {
				q, err := query.ParseWithLimits(text, a.limits())
				if err != nil {
					return fmt.Errorf("normalize %q: %w", text, err)
				}
				a.logger.Debug("normalized query", zap.String("input", text), zap.Int("parameters", q.Len()))
				_, err = fmt.Fprintln(cmd.OutOrStdout(), q.Encode())
				return err
			})
		},
	}
}

func newDecodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [QUERY...]",
		Short: "Print each query as a JSON object of name to values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.eachQuery(cmd, args, func(text string) error {
				values, err := codec.ParseWithLimits(text, a.limits())
				if err != nil {
					return fmt.Errorf("decode %q: %w", text, err)
				}
				out, err := json.Marshal(values)
				if err != nil {
					return fmt.Errorf("failed to marshal %q: %w", text, err)
				}
				a.logger.Debug("decoded query", zap.String("input", text), zap.Int("names", len(values)))
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			})
		},
	}
}

func newEncodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encode",
		Short: "Read JSON objects of name to values from stdin and print each as a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dec := json.NewDecoder(cmd.InOrStdin())
			for n := 1; ; n++ {
				var values codec.Values
				err := dec.Decode(&values)
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to decode object %d: %w", n, err)
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), codec.Serialize(values)); err != nil {
					return err
				}
				a.logger.Debug("encoded mapping", zap.Int("object", n), zap.Int("names", len(values)))
			}
		},
	}
}

func (a *app) limits() lexer.Limits {
	limits := lexer.DefaultLimits()
	limits.MaxParameters = a.maxParams
	limits.MaxInputLength = a.maxInput
	limits.StrictEscapes = a.strict
	return limits
}

// eachQuery calls fn for every argument, or for every stdin line when
// there are no arguments.
func (a *app) eachQuery(cmd *cobra.Command, args []string, fn func(string) error) error {
	if len(args) > 0 {
		for _, arg := range args {
			if err := fn(arg); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapcfg := zap.NewProductionConfig()
	zapcfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	zapcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zapcfg.Encoding = "console"
	zapcfg.Level = zap.NewAtomicLevelAt(lvl)
	zapcfg.OutputPaths = []string{"stderr"}
	return zapcfg.Build()
}
