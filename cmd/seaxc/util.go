package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/seax-io/seax"
	serrors "github.com/seax-io/seax/errors"
	"github.com/spf13/cobra"
)

const stdinName = "<stdin>"

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// input is one syntax tree document named by its file.
type input struct {
	name string
	data []byte
	err  error
}

// fileError attributes an error to the input it came from.
type fileError struct {
	name string
	err  error
}

func (e *fileError) Error() string { return e.name + ": " + e.err.Error() }

func (e *fileError) Unwrap() error { return e.err }

// readInputs returns the documents named by args, or stdin when --stdin is
// set. Read failures are attached to the input rather than returned, so
// that the remaining inputs can still be processed.
func readInputs(cmd *cobra.Command, args []string) ([]input, error) {
	stdin, _ := cmd.Flags().GetBool("stdin")
	if stdin && len(args) > 0 {
		return nil, errors.New("multiple input sources specified")
	}
	if stdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return []input{{name: stdinName, data: data}}, nil
	}
	if len(args) == 0 {
		return nil, errors.New("no input provided")
	}
	inputs := make([]input, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		inputs = append(inputs, input{name: path, data: data, err: err})
	}
	return inputs, nil
}

// readInput returns exactly one document.
func readInput(cmd *cobra.Command, args []string) (input, error) {
	if len(args) > 1 {
		return input{}, fmt.Errorf("expected one input file, got %d", len(args))
	}
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return input{}, err
	}
	if inputs[0].err != nil {
		return input{}, inputs[0].err
	}
	return inputs[0], nil
}

func (a *app) logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return zerolog.Nop(), err
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func (a *app) compileOptions(cmd *cobra.Command) ([]seax.Option, error) {
	logger, err := a.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return []seax.Option{
		seax.WithLogger(logger),
		seax.WithGlobals(a.v.GetStringSlice("globals")...),
		seax.WithMaxDepth(a.v.GetInt("max-depth")),
	}, nil
}

func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(v any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

// formatError renders an error for the terminal. Compile errors use the
// friendly multi-line format and aggregated errors are listed one by one.
func formatError(err error) string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var b strings.Builder
		for _, e := range merr.Errors {
			b.WriteString(formatError(e))
		}
		return b.String()
	}
	formatter := serrors.NewFormatter(!color.NoColor)
	var cerr *serrors.CompileError
	if errors.As(err, &cerr) {
		var ferr *fileError
		if errors.As(err, &ferr) {
			return formatter.FormatWithPrefix(cerr, fmt.Sprintf("%s %s", cerr.Code, ferr.name))
		}
		return formatter.Format(cerr)
	}
	return red(err.Error()) + "\n"
}
