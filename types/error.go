package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unified error code across suitekit.
type ErrorCode string

// Build error codes
const (
	ErrParseError      ErrorCode = "PARSE_ERROR"
	ErrLinkError       ErrorCode = "LINK_ERROR"
	ErrUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"
	ErrRangeViolation  ErrorCode = "RANGE_VIOLATION"
)

// Mutation error codes
const (
	ErrInvalidName   ErrorCode = "INVALID_NAME"
	ErrInvalidValue  ErrorCode = "INVALID_VALUE"
	ErrDuplicateName ErrorCode = "DUPLICATE_NAME"
	ErrNotAChild     ErrorCode = "NOT_A_CHILD"
	ErrCycle         ErrorCode = "CYCLE"
	ErrInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Sentinel kinds for errors.Is matching. A *Error matches the sentinel
// that corresponds to its Code.
var (
	ErrParse       = errors.New("parse error")
	ErrLink        = errors.New("link error")
	ErrUnsupported = errors.New("unsupported type")
	ErrRange       = errors.New("range violation")
	ErrMutation    = errors.New("invalid mutation")
	ErrConfig      = errors.New("invalid configuration")
)

// Error represents a structured error with code, message, and location.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Node is the path of the node the error is about, if any.
	Node string `json:"node,omitempty"`
	// Path is the unresolved or offending path operand, if any.
	Path string `json:"path,omitempty"`
	// Line and Column locate parse errors in the source text (1-based).
	Line   int   `json:"line,omitempty"`
	Column int   `json:"column,omitempty"`
	Cause  error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(string(e.Code))
	sb.WriteString("] ")
	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d:%d: ", e.Line, e.Column)
	} else if e.Column > 0 {
		fmt.Fprintf(&sb, "col %d: ", e.Column)
	}
	sb.WriteString(e.Message)
	if e.Node != "" {
		fmt.Fprintf(&sb, " (node %s)", e.Node)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel kind of this error's code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrParse:
		return e.Code == ErrParseError
	case ErrLink:
		return e.Code == ErrLinkError
	case ErrUnsupported:
		return e.Code == ErrUnsupportedType
	case ErrRange:
		return e.Code == ErrRangeViolation
	case ErrMutation:
		switch e.Code {
		case ErrInvalidName, ErrInvalidValue, ErrDuplicateName, ErrNotAChild, ErrCycle:
			return true
		}
		return false
	case ErrConfig:
		return e.Code == ErrInvalidConfig
	}
	return false
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewParseError creates a PARSE_ERROR located at line:col.
func NewParseError(line, col int, format string, args ...any) *Error {
	return &Error{
		Code:    ErrParseError,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  col,
	}
}

// NewLinkError creates a LINK_ERROR for an unresolved trigger operand.
func NewLinkError(node, path string) *Error {
	return &Error{
		Code:    ErrLinkError,
		Message: fmt.Sprintf("trigger path %q does not resolve", path),
		Node:    node,
		Path:    path,
	}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithNode sets the node path the error refers to.
func (e *Error) WithNode(node string) *Error {
	e.Node = node
	return e
}

// WithPath sets the offending path operand.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithPosition sets the source position.
func (e *Error) WithPosition(line, col int) *Error {
	e.Line = line
	e.Column = col
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsParseError reports whether err is, or wraps, a parse error.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsLinkError reports whether err is, or wraps, a link error.
func IsLinkError(err error) bool {
	return errors.Is(err, ErrLink)
}
