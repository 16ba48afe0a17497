package svelteast

import "github.com/pheuter/sveltecheck/internal/span"

// ErrorCode enumerates the recoverable parse error classes (spec.md §4.1).
type ErrorCode string

const (
	ErrInvalidUTF8        ErrorCode = "parse-error"
	ErrUnclosedTag        ErrorCode = "unclosed-tag"
	ErrMismatchedBlock    ErrorCode = "mismatched-block-close"
	ErrUnknownBlock       ErrorCode = "unknown-block"
	ErrUnterminatedExpr   ErrorCode = "unterminated-expression"
	ErrInvalidAttribute   ErrorCode = "invalid-attribute-syntax"
)

// ParseError is a recoverable error produced while parsing. The parser
// never panics and never drops source text: bytes it cannot attach to a
// node become a synthetic Text node carrying the error (spec.md §4.1).
type ParseError struct {
	Code    ErrorCode
	Message string
	Span    span.Span
}

// ParseResult is the output of parsing a single component source. Document
// is always non-nil, even when Errors is non-empty.
type ParseResult struct {
	Document *Document
	Errors   []ParseError
}
