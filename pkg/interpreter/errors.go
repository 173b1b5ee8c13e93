package interpreter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"zapush/interpreter-go/pkg/ast"
)

// ErrorKind classifies interpreter failures. A kind is itself an error so
// callers can write errors.Is(err, interpreter.ErrUnboundName).
type ErrorKind string

const (
	KindSourceUnparsable           ErrorKind = "SourceUnparsableError"
	KindTypeNotFound               ErrorKind = "TypeNotFoundError"
	KindMemberNotFound             ErrorKind = "MemberNotFoundError"
	KindUnresolvedType             ErrorKind = "UnresolvedTypeError"
	KindUnboundName                ErrorKind = "UnboundNameError"
	KindAmbiguousOrMissingOverload ErrorKind = "AmbiguousOrMissingOverloadError"
	KindFieldNotFound              ErrorKind = "FieldNotFoundError"
	KindUnsupportedAccess          ErrorKind = "UnsupportedAccessError"
	KindUnsupportedSyntax          ErrorKind = "UnsupportedSyntaxError"
	KindTypeMismatch               ErrorKind = "TypeMismatchError"
	KindInvocation                 ErrorKind = "InvocationError"
	KindDivisionByZero             ErrorKind = "DivisionByZeroError"
)

func (k ErrorKind) Error() string { return string(k) }

var (
	ErrSourceUnparsable           error = KindSourceUnparsable
	ErrTypeNotFound               error = KindTypeNotFound
	ErrMemberNotFound             error = KindMemberNotFound
	ErrUnresolvedType             error = KindUnresolvedType
	ErrUnboundName                error = KindUnboundName
	ErrAmbiguousOrMissingOverload error = KindAmbiguousOrMissingOverload
	ErrFieldNotFound              error = KindFieldNotFound
	ErrUnsupportedAccess          error = KindUnsupportedAccess
	ErrUnsupportedSyntax          error = KindUnsupportedSyntax
	ErrTypeMismatch               error = KindTypeMismatch
	ErrInvocation                 error = KindInvocation
	ErrDivisionByZero             error = KindDivisionByZero
)

// RuntimeError is the single error type returned by Execute. Span points at
// the node being evaluated when the failure happened; Err is the underlying
// cause for invocation and parse failures.
type RuntimeError struct {
	Kind       ErrorKind
	Message    string
	Span       ast.Span
	Suggestion string
	Err        error
}

func (e *RuntimeError) Error() string {
	msg := e.Message
	if e.Suggestion != "" {
		msg = fmt.Sprintf("%s; did you mean %q?", msg, e.Suggestion)
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func (e *RuntimeError) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

// KindOf extracts the kind of an interpreter error, or "" for foreign errors.
func KindOf(err error) ErrorKind {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr.Kind
	}
	return ""
}

func newError(kind ErrorKind, node ast.Node, format string, args ...any) *RuntimeError {
	err := &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if node != nil {
		err.Span = node.Span()
	}
	return err
}

func wrapError(kind ErrorKind, node ast.Node, cause error, format string, args ...any) *RuntimeError {
	err := newError(kind, node, format, args...)
	err.Err = cause
	if cause != nil {
		err.Message = fmt.Sprintf("%s: %v", err.Message, cause)
	}
	return err
}

func (e *RuntimeError) suggest(needle string, haystack []string) *RuntimeError {
	e.Suggestion = closestMatch(needle, haystack)
	return e
}

const maxSuggestionDistance = 2

// closestMatch finds the candidate with the smallest edit distance to needle,
// ignoring case. Ties go to the alphabetically first candidate.
func closestMatch(needle string, haystack []string) string {
	if needle == "" || len(haystack) == 0 {
		return ""
	}
	keys := append([]string(nil), haystack...)
	sort.Strings(keys)

	match := ""
	closest := maxSuggestionDistance + 1
	for _, key := range keys {
		if key == needle {
			continue
		}
		d := levenshtein.DistanceForStrings(
			[]rune(strings.ToLower(needle)),
			[]rune(strings.ToLower(key)),
			levenshtein.DefaultOptionsWithSub,
		)
		if d < closest {
			closest = d
			match = key
		}
	}
	return match
}
