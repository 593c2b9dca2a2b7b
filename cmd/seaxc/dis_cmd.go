package main

import (
	"github.com/seax-io/seax"
	"github.com/seax-io/seax/dis"
	"github.com/spf13/cobra"
)

func (a *app) newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Compile a JSON syntax tree and list its instructions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.disHandler,
	}
	cmd.Flags().Bool("stdin", false, "Read the syntax tree from stdin")
	return cmd
}

func (a *app) disHandler(cmd *cobra.Command, args []string) error {
	in, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	opts, err := a.compileOptions(cmd)
	if err != nil {
		return err
	}
	program, err := seax.CompileJSON(in.data, append(opts, seax.WithFilename(in.name))...)
	if err != nil {
		return &fileError{name: in.name, err: err}
	}
	instructions, err := dis.Disassemble(program.Code)
	if err != nil {
		return err
	}
	return dis.Print(instructions, cmd.OutOrStdout())
}
