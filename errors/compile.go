package errors

import "fmt"

// CompileError represents a compilation failure. Form holds the source
// rendering of the offending expression; for unbound identifiers it is the
// identifier itself.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Form        string
	Suggestions []Suggestion
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return "compile error: " + e.Message
}

// Kind returns the category of the error.
func (e *CompileError) Kind() Kind {
	return e.Code.Kind()
}

// Is reports whether target is the sentinel for this error's kind, so that
// errors.Is(err, ErrUnbound) works on a *CompileError.
func (e *CompileError) Is(target error) bool {
	sentinel := e.Kind().sentinel()
	return sentinel != nil && sentinel == target
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e)
}

// Hint returns the "Did you mean" text for the error, if any.
func (e *CompileError) Hint() string {
	return FormatSuggestions(e.Suggestions)
}

// Unbound returns an unbound identifier error naming the identifier.
func Unbound(name string, candidates []string) *CompileError {
	return &CompileError{
		Code:        E2001,
		Message:     fmt.Sprintf("unbound identifier `%s`", name),
		Form:        name,
		Suggestions: SuggestSimilar(name, candidates),
	}
}

// Malformed returns a malformed special form error. The keyword names the
// form ("if", "lambda", "let"), the detail explains what was wrong.
func Malformed(code ErrorCode, keyword, form, detail string) *CompileError {
	msg := fmt.Sprintf("malformed %s expression", keyword)
	if detail != "" {
		msg = msg + ": " + detail
	}
	return &CompileError{Code: code, Message: msg, Form: form}
}

// Malformedf is Malformed with a formatted detail.
func Malformedf(code ErrorCode, keyword, form, format string, args ...any) *CompileError {
	return Malformed(code, keyword, form, fmt.Sprintf(format, args...))
}

// NotImplemented returns an unimplemented construct error.
func NotImplemented(what, form string) *CompileError {
	return &CompileError{
		Code:    E2099,
		Message: fmt.Sprintf("%s is not implemented", what),
		Form:    form,
	}
}

// TooDeep returns an error for a tree nested deeper than the configured
// limit.
func TooDeep(limit int, form string) *CompileError {
	return &CompileError{
		Code:    E2014,
		Message: fmt.Sprintf("maximum nesting depth of %d exceeded", limit),
		Form:    form,
	}
}
