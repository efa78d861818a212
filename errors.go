package rsd

import (
	"fmt"

	"github.com/renderspud/rsd/token"
)

// PositionedError is satisfied by each of the error kinds below; it exposes
// the source location the error occurred at. The loader package does not
// use these kinds: it reports file-open and include failures as plain
// wrapped errors, and no function in this module returns an IoError.
type PositionedError interface {
	error
	Pos() token.Pos
}

// IoError wraps a failure reading or including a source file.
type IoError struct {
	*token.PosError
}

// TokenError wraps a failure tokenizing a source file.
type TokenError struct {
	*token.PosError
}

// ParseError wraps a failure parsing a token stream into a Value.
type ParseError struct {
	*token.PosError
}

// ValueError wraps a failure resolving, finding or converting a Value
// (e.g. an unregistered macro, a reference cycle, or a missing member).
type ValueError struct {
	*token.PosError
}

// ConversionError wraps a failure converting a resolved Value to a
// requested Go type (e.g. AsInt on a Value that holds a Block).
type ConversionError struct {
	*token.PosError
}

func (e *IoError) Pos() token.Pos         { return e.PosError.Node.Begin() }
func (e *TokenError) Pos() token.Pos      { return e.PosError.Node.Begin() }
func (e *ParseError) Pos() token.Pos      { return e.PosError.Node.Begin() }
func (e *ValueError) Pos() token.Pos      { return e.PosError.Node.Begin() }
func (e *ConversionError) Pos() token.Pos { return e.PosError.Node.Begin() }

func newIoError(pos token.Pos, format string, args ...interface{}) *IoError {
	return &IoError{token.NewPosError(token.NewNode(pos, pos), fmt.Sprintf(format, args...))}
}

func newTokenError(pos token.Pos, format string, args ...interface{}) *TokenError {
	return &TokenError{token.NewPosError(token.NewNode(pos, pos), fmt.Sprintf(format, args...))}
}

func newParseError(pos token.Pos, format string, args ...interface{}) *ParseError {
	return &ParseError{token.NewPosError(token.NewNode(pos, pos), fmt.Sprintf(format, args...))}
}

func newValueError(pos token.Pos, format string, args ...interface{}) *ValueError {
	return &ValueError{token.NewPosError(token.NewNode(pos, pos), fmt.Sprintf(format, args...))}
}

func newConversionError(pos token.Pos, format string, args ...interface{}) *ConversionError {
	return &ConversionError{token.NewPosError(token.NewNode(pos, pos), fmt.Sprintf(format, args...))}
}
