package errors

// ErrorCode represents a unique identifier for error types. Compile errors
// use the E2xxx range.
type ErrorCode string

const (
	E2001 ErrorCode = "E2001" // Unbound identifier
	E2011 ErrorCode = "E2011" // Malformed if expression
	E2012 ErrorCode = "E2012" // Malformed lambda expression
	E2013 ErrorCode = "E2013" // Malformed let expression
	E2014 ErrorCode = "E2014" // Maximum nesting depth exceeded
	E2015 ErrorCode = "E2015" // Malformed application
	E2099 ErrorCode = "E2099" // Unimplemented construct
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E2001: "unbound identifier",
	E2011: "malformed if expression",
	E2012: "malformed lambda expression",
	E2013: "malformed let expression",
	E2014: "maximum nesting depth exceeded",
	E2015: "malformed application",
	E2099: "unimplemented construct",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Kind returns the error kind associated with the code.
func (c ErrorCode) Kind() Kind {
	switch c {
	case E2001:
		return UnboundIdentifier
	case E2099:
		return Unimplemented
	case "":
		return 0
	default:
		return MalformedForm
	}
}
