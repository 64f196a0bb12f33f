package checkfile

import "fmt"

// ConfigError reports a problem with the checker's configuration, detected
// before any directive is parsed: a bad check-prefix, a duplicate prefix, or
// a malformed command-line define.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return "config error: " + e.Message }

// ParseErrorKind distinguishes the different ways a directive body can fail
// to compile into a Pattern.
type ParseErrorKind int

const (
	ParseErrEmptyBody ParseErrorKind = iota
	ParseErrNonEmptyEmptyBody
	ParseErrUnterminatedRegex
	ParseErrUnterminatedVar
	ParseErrInvalidName
	ParseErrTooManyCaptures
	ParseErrNameCollision
	ParseErrLabelHasCapture
	ParseErrBadExpression
	ParseErrUndefinedVariable
	ParseErrMalformedNot
	ParseErrMalformedCount
	ParseErrInvalidRegex
	ParseErrSelfReferential
)

// ParseError reports a malformed directive body. Location is a byte offset
// into the check file buffer pointing at the offending span.
type ParseError struct {
	Kind     ParseErrorKind
	Name     string
	Location SourceLoc
	Message  string
}

func (e *ParseError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("parse error at %s: %s (%q)", e.Location, e.Message, e.Name)
	}
	return fmt.Sprintf("parse error at %s: %s", e.Location, e.Message)
}

// ParseErrors aggregates every parse error found while compiling a check
// file; all are reported together rather than stopping at the first.
type ParseErrors struct {
	Errors []*ParseError
}

func (e *ParseErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d parse errors, first: %s", len(e.Errors), e.Errors[0].Error())
}

func (e *ParseErrors) Add(err *ParseError) {
	e.Errors = append(e.Errors, err)
}

func (e *ParseErrors) HasErrors() bool { return len(e.Errors) > 0 }

// MatchErrorKind enumerates the terminal ways a pattern match attempt can
// fail at run time.
type MatchErrorKind int

const (
	MatchErrNotFound MatchErrorKind = iota
	MatchErrUndefinedVariable
	MatchErrParseFailure
	MatchErrOverflow
)

// MatchError reports a failed match attempt at run time: pattern not found,
// an undefined variable referenced mid-match, or numeric overflow on
// capture.
type MatchError struct {
	Kind    MatchErrorKind
	Name    string
	Message string
}

func (e *MatchError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Name)
	}
	return e.Message
}

func errUndefined(name string) *MatchError {
	return &MatchError{Kind: MatchErrUndefinedVariable, Name: name, Message: "undefined variable"}
}
