package toon

import (
	"github.com/goccy/go-toon/internal/errors"
	"github.com/goccy/go-toon/token"
	"golang.org/x/xerrors"
)

// FormatError renders err as text. If colored is true the message is
// syntax highlighted, and if inclSource is true the annotated source
// window around the offending token is appended.
func FormatError(err error, colored, inclSource bool) string {
	prevColored := errors.ColoredErr
	prevSource := errors.WithSourceCode
	errors.ColoredErr = colored
	errors.WithSourceCode = inclSource
	defer func() {
		errors.ColoredErr = prevColored
		errors.WithSourceCode = prevSource
	}()
	return err.Error()
}

// TokenScopedError represents an error associated with a specific
// [token.Token].
type TokenScopedError struct {
	// Msg is the underlying error message.
	Msg string
	// Token is the [token.Token] associated with this error.
	Token *token.Token
	// err is the underlying, unwraped error.
	err error
}

// Error implements the error interface.
func (s TokenScopedError) Error() string {
	return s.err.Error()
}

// AsTokenScopedError checks if the error is associated with a specific
// token. If so, it returns the error with the token and message exposed.
// Otherwise, it returns nil.
func AsTokenScopedError(err error) *TokenScopedError {
	var scoped interface {
		GetMessage() string
		GetToken() *token.Token
	}
	if xerrors.As(err, &scoped) {
		return &TokenScopedError{
			Msg:   scoped.GetMessage(),
			Token: scoped.GetToken(),
			err:   err,
		}
	}
	return nil
}

// IsSyntaxError whether err is a syntax error or not.
func IsSyntaxError(err error) bool {
	var target *errors.SyntaxError
	return xerrors.As(err, &target)
}

// IsIndentationError whether err is an indentation error or not.
func IsIndentationError(err error) bool {
	var target *errors.IndentationError
	return xerrors.As(err, &target)
}

// IsUnexpectedEndError whether err reports a truncated document or not.
func IsUnexpectedEndError(err error) bool {
	var target *errors.UnexpectedEndError
	return xerrors.As(err, &target)
}

// IsLengthMismatchError whether err reports a declared array length that
// disagrees with the counted items or not.
func IsLengthMismatchError(err error) bool {
	var target *errors.LengthMismatchError
	return xerrors.As(err, &target)
}

// AsLengthMismatchError returns the length mismatch error with the
// declared and actual counts, or nil.
func AsLengthMismatchError(err error) *errors.LengthMismatchError {
	var target *errors.LengthMismatchError
	if xerrors.As(err, &target) {
		return target
	}
	return nil
}

// IsFieldMismatchError whether err reports a tabular row with the wrong
// number of fields or not.
func IsFieldMismatchError(err error) bool {
	var target *errors.FieldMismatchError
	return xerrors.As(err, &target)
}

// IsDelimiterMismatchError whether err reports inconsistent delimiter
// use or not.
func IsDelimiterMismatchError(err error) bool {
	var target *errors.DelimiterMismatchError
	return xerrors.As(err, &target)
}

// IsDuplicateKeyError whether err reports a duplicated object key or
// not.
func IsDuplicateKeyError(err error) bool {
	var target *errors.DuplicateKeyError
	return xerrors.As(err, &target)
}

// IsTypeError whether err reports an impossible assignment or not.
func IsTypeError(err error) bool {
	var target *errors.TypeError
	return xerrors.As(err, &target)
}

// IsValidationFailedError whether err reports a struct validator
// rejection or not.
func IsValidationFailedError(err error) bool {
	var target *errors.ValidationFailedError
	return xerrors.As(err, &target)
}

// IsCycleError whether err reports a container reachable from itself or
// not.
func IsCycleError(err error) bool {
	var target *errors.CycleError
	return xerrors.As(err, &target)
}

// IsUnsupportedTypeError whether err reports a value with no TOON
// representation or not.
func IsUnsupportedTypeError(err error) bool {
	var target *errors.UnsupportedTypeError
	return xerrors.As(err, &target)
}

// IsLimitExceededError whether err reports a resource cap hit or not.
func IsLimitExceededError(err error) bool {
	var target *errors.LimitExceededError
	return xerrors.As(err, &target)
}
