package errors

import (
	"fmt"

	"github.com/goccy/go-toon/printer"
	"github.com/goccy/go-toon/token"
	"golang.org/x/xerrors"
)

var (
	// ColoredErr error with syntax highlight
	ColoredErr = true
	// WithSourceCode error with source code
	WithSourceCode = true
	// ErrDecodeRequiredPointerType error instance for decoding
	ErrDecodeRequiredPointerType = xerrors.New("required pointer type value")
)

// Wrapf wrap error for stack trace
func Wrapf(err error, msg string, args ...interface{}) error {
	return &wrapError{
		err:     xerrors.Errorf(msg, args...),
		nextErr: err,
		frame:   xerrors.Caller(1),
	}
}

type wrapError struct {
	err     error
	nextErr error
	frame   xerrors.Frame
}

func (e *wrapError) Error() string {
	return fmt.Sprintf("%v", e)
}

func (e *wrapError) Unwrap() error {
	return e.nextErr
}

func (e *wrapError) Format(state fmt.State, verb rune) {
	xerrors.FormatError(e, state, verb)
}

func (e *wrapError) FormatError(p xerrors.Printer) error {
	p.Print(e.err)
	if p.Detail() {
		e.frame.Format(p)
	}
	return e.nextErr
}

// tokenError is the shared shape of every error tied to a source
// position. kind is the taxonomy label used as the message prefix.
type tokenError struct {
	kind  string
	msg   string
	token *token.Token
	frame xerrors.Frame
}

func (e *tokenError) Error() string {
	var p printer.Printer
	pos := ""
	if e.token != nil && e.token.Position != nil {
		pos = fmt.Sprintf("[%d:%d] ", e.token.Position.Line, e.token.Position.Column)
	}
	msg := p.PrintErrorMessage(fmt.Sprintf("%s: %s%s", e.kind, pos, e.msg), ColoredErr)
	if WithSourceCode && e.token != nil {
		src := p.PrintErrorToken(e.token, ColoredErr)
		if src != "" {
			return fmt.Sprintf("%s\n%s", msg, src)
		}
	}
	return msg
}

// GetMessage returns the error message without position and source code.
func (e *tokenError) GetMessage() string {
	return e.msg
}

// GetToken returns the token where the error occurred.
func (e *tokenError) GetToken() *token.Token {
	return e.token
}

func (e *tokenError) Format(state fmt.State, verb rune) {
	xerrors.FormatError(e, state, verb)
}

func (e *tokenError) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	if p.Detail() {
		e.frame.Format(p)
	}
	return nil
}

// SyntaxError malformed header, unterminated quote, missing colon,
// illegal escape or bad number
type SyntaxError struct {
	*tokenError
}

// ErrSyntax create syntax error instance with message and token
func ErrSyntax(msg string, tk *token.Token) *SyntaxError {
	return &SyntaxError{
		tokenError: &tokenError{
			kind:  "syntax error",
			msg:   msg,
			token: tk,
			frame: xerrors.Caller(1),
		},
	}
}

// IndentationError tab in the indentation region or an indent that is not
// a multiple of the configured indent size
type IndentationError struct {
	*tokenError
}

// ErrIndentation create indentation error instance with message and token
func ErrIndentation(msg string, tk *token.Token) *IndentationError {
	return &IndentationError{
		tokenError: &tokenError{
			kind:  "indentation error",
			msg:   msg,
			token: tk,
			frame: xerrors.Caller(1),
		},
	}
}

// UnexpectedEndError input truncated in the middle of a structure
type UnexpectedEndError struct {
	*tokenError
}

// ErrUnexpectedEnd create unexpected-end error instance
func ErrUnexpectedEnd(msg string, tk *token.Token) *UnexpectedEndError {
	return &UnexpectedEndError{
		tokenError: &tokenError{
			kind:  "unexpected end of document",
			msg:   msg,
			token: tk,
			frame: xerrors.Caller(1),
		},
	}
}

// LengthMismatchError declared array length disagrees with the counted
// items
type LengthMismatchError struct {
	*tokenError
	Declared int
	Actual   int
}

// ErrLengthMismatch create length mismatch error with declared and actual counts
func ErrLengthMismatch(declared, actual int, tk *token.Token) *LengthMismatchError {
	return &LengthMismatchError{
		tokenError: &tokenError{
			kind:  "validation error",
			msg:   fmt.Sprintf("length mismatch: expected %d but got %d", declared, actual),
			token: tk,
			frame: xerrors.Caller(1),
		},
		Declared: declared,
		Actual:   actual,
	}
}

// FieldMismatchError tabular row carries the wrong number of fields
type FieldMismatchError struct {
	*tokenError
	Expected int
	Actual   int
}

// ErrFieldMismatch create field mismatch error with expected and actual counts
func ErrFieldMismatch(expected, actual int, tk *token.Token) *FieldMismatchError {
	return &FieldMismatchError{
		tokenError: &tokenError{
			kind:  "validation error",
			msg:   fmt.Sprintf("field mismatch: header declares %d fields but row has %d", expected, actual),
			token: tk,
			frame: xerrors.Caller(1),
		},
		Expected: expected,
		Actual:   actual,
	}
}

// DelimiterMismatchError inconsistent delimiter use inside one header
type DelimiterMismatchError struct {
	*tokenError
}

// ErrDelimiterMismatch create delimiter mismatch error
func ErrDelimiterMismatch(msg string, tk *token.Token) *DelimiterMismatchError {
	return &DelimiterMismatchError{
		tokenError: &tokenError{
			kind:  "validation error",
			msg:   msg,
			token: tk,
			frame: xerrors.Caller(1),
		},
	}
}

// DuplicateKeyError the same key appears twice within one object
type DuplicateKeyError struct {
	*tokenError
	Key string
}

// ErrDuplicateKey create duplicate key error
func ErrDuplicateKey(key string, tk *token.Token) *DuplicateKeyError {
	return &DuplicateKeyError{
		tokenError: &tokenError{
			kind:  "validation error",
			msg:   fmt.Sprintf("duplicate key %q", key),
			token: tk,
			frame: xerrors.Caller(1),
		},
		Key: key,
	}
}

// ValidationFailedError a struct validator rejected a decoded value
type ValidationFailedError struct {
	*tokenError
}

// ErrValidationFailed create validation error carrying the validator's message
func ErrValidationFailed(msg string, tk *token.Token) *ValidationFailedError {
	return &ValidationFailedError{
		tokenError: &tokenError{
			kind:  "validation error",
			msg:   msg,
			token: tk,
			frame: xerrors.Caller(1),
		},
	}
}

// TypeError decoded value cannot be assigned to the destination type
type TypeError struct {
	*tokenError
	DstType string
	SrcType string
}

// ErrTypeMismatch create type error for an impossible assignment
func ErrTypeMismatch(dstType, srcType string, tk *token.Token) *TypeError {
	return &TypeError{
		tokenError: &tokenError{
			kind:  "type error",
			msg:   fmt.Sprintf("cannot unmarshal %s into Go value of type %s", srcType, dstType),
			token: tk,
			frame: xerrors.Caller(1),
		},
		DstType: dstType,
		SrcType: srcType,
	}
}

// CycleError a container reachable from itself was handed to the encoder
type CycleError struct {
	typeName string
}

// ErrCycle create cycle error for a self-referential container
func ErrCycle(typeName string) *CycleError {
	return &CycleError{typeName: typeName}
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected through %s", e.typeName)
}

// UnsupportedTypeError the value has no representation in the format
type UnsupportedTypeError struct {
	typeName string
}

// ErrUnsupportedType create unsupported type error
func ErrUnsupportedType(typeName string) *UnsupportedTypeError {
	return &UnsupportedTypeError{typeName: typeName}
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s", e.typeName)
}

// LimitExceededError one of the configured resource caps was hit
type LimitExceededError struct {
	What  string
	Limit int
}

// ErrLimitExceeded create limit error for the named resource
func ErrLimitExceeded(what string, limit int) *LimitExceededError {
	return &LimitExceededError{What: what, Limit: limit}
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s exceeds the configured limit of %d", e.What, e.Limit)
}
