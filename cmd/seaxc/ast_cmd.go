package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/seax-io/seax/ast"
	"github.com/spf13/cobra"
)

func (a *app) newAstCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Display a JSON syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.astHandler,
	}
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().Bool("stdin", false, "Read the syntax tree from stdin")
	cmd.Flags().Bool("summary", false, "Print node counts after the tree")
	return cmd
}

func (a *app) astHandler(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	if err := checkFormat(format); err != nil {
		return err
	}
	in, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	node, err := ast.Unmarshal(in.data)
	if err != nil {
		return &fileError{name: in.name, err: err}
	}
	out := cmd.OutOrStdout()
	if strings.ToLower(format) == "json" {
		data, err := ast.Marshal(node)
		if err != nil {
			return err
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		data, err = getOutputJSON(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprint(out, ast.Prettyprint(node))
	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		printSummary(out, node)
	}
	return nil
}

func nodeKind(node ast.Node) string {
	switch node.(type) {
	case *ast.Root:
		return "root"
	case *ast.SExpr:
		return "s-expression"
	case *ast.Name:
		return "name"
	case *ast.List:
		return "list"
	case ast.Number:
		return "number"
	case *ast.Bool:
		return "boolean"
	case *ast.Char:
		return "character"
	case *ast.String:
		return "string"
	default:
		return "unknown"
	}
}

func printSummary(w io.Writer, node ast.Node) {
	counts := map[string]int{}
	ast.Inspect(node, func(n ast.Node) bool {
		counts[nodeKind(n)]++
		return true
	})
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	fmt.Fprintln(w)
	for _, kind := range kinds {
		fmt.Fprintf(w, "%s: %d\n", kind, counts[kind])
	}
}
