package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders compile errors for display:
//
//	error[E2001]: unbound identifier `fo`
//	  --> fo
//	  = hint: Did you mean 'foo'?
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorError = []color.Attribute{color.FgRed, color.Bold}
	colorForm  = []color.Attribute{color.FgCyan}
	colorHint  = []color.Attribute{color.FgYellow}
)

// paint builds a new color per call so formatters never share color state.
func (f *Formatter) paint(attrs []color.Attribute, s string) string {
	if !f.UseColor {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// Format formats a single compile error.
func (f *Formatter) Format(err *CompileError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error with an optional label such as a
// filename, which is shown in place of the error code.
func (f *Formatter) FormatWithPrefix(err *CompileError, prefix string) string {
	var b strings.Builder
	label := string(err.Code)
	if prefix != "" {
		label = prefix
	}
	header := "error"
	if label != "" {
		header = fmt.Sprintf("error[%s]", label)
	}
	b.WriteString(f.paint(colorError, header))
	b.WriteString(": ")
	b.WriteString(err.Message)
	b.WriteString("\n")
	if err.Form != "" {
		b.WriteString("  --> ")
		b.WriteString(f.paint(colorForm, err.Form))
		b.WriteString("\n")
	}
	if hint := err.Hint(); hint != "" {
		b.WriteString("  = ")
		b.WriteString(f.paint(colorHint, "hint: "+hint))
		b.WriteString("\n")
	}
	return b.String()
}
