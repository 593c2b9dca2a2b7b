package main

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/seax-io/seax"
	"github.com/seax-io/seax/bytecode"
	"github.com/spf13/cobra"
)

func (a *app) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [file...]",
		Short: "Compile JSON syntax trees into code lists",
		Long: `Compile one or more JSON encoded syntax trees. Every input is compiled
even when an earlier one fails; all failures are reported together.`,
		RunE: a.compileHandler,
	}
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().Bool("stdin", false, "Read the syntax tree from stdin")
	cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (a *app) compileHandler(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if err := checkFormat(format); err != nil {
		return err
	}
	inputs, err := readInputs(cmd, args)
	if err != nil {
		return err
	}
	opts, err := a.compileOptions(cmd)
	if err != nil {
		return err
	}

	var result *multierror.Error
	var programs []*bytecode.Program
	for _, in := range inputs {
		if in.err != nil {
			result = multierror.Append(result, &fileError{name: in.name, err: in.err})
			continue
		}
		program, err := seax.CompileJSON(in.data, append(opts, seax.WithFilename(in.name))...)
		if err != nil {
			result = multierror.Append(result, &fileError{name: in.name, err: err})
			continue
		}
		programs = append(programs, program)
	}

	if err := writePrograms(cmd, programs, strings.ToLower(format), len(inputs) > 1); err != nil {
		return err
	}
	return result.ErrorOrNil()
}

func writePrograms(cmd *cobra.Command, programs []*bytecode.Program, format string, labeled bool) error {
	out := cmd.OutOrStdout()
	if format == "json" {
		if len(programs) == 0 {
			return nil
		}
		var v any = programs
		if !labeled {
			v = programs[0]
		}
		data, err := getOutputJSON(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	for _, p := range programs {
		if labeled {
			fmt.Fprintf(out, "%s: %s\n", p.Source, p.Code)
		} else {
			fmt.Fprintln(out, p.Code)
		}
	}
	return nil
}
