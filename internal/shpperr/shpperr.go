// Package shpperr implements Shell++'s runtime error model: a single error
// category carrying a kind code, a formatted message, and a source location.
package shpperr

import (
	"fmt"

	"github.com/shpp-lang/shpp/internal/ast"
)

// Kind identifies the category of a runtime error.
type Kind int

const (
	IncompatibleType Kind = iota
	FuncParams
	InvalidCommand
	IDNotFound
	OutOfRange
	ZeroDiv
	Assert
	KeyNotFound
	Parser
	Import
	Custom
)

func (k Kind) String() string {
	switch k {
	case IncompatibleType:
		return "INCOMPATIBLE_TYPE"
	case FuncParams:
		return "FUNC_PARAMS"
	case InvalidCommand:
		return "INVALID_COMMAND"
	case IDNotFound:
		return "ID_NOT_FOUND"
	case OutOfRange:
		return "OUT_OF_RANGE"
	case ZeroDiv:
		return "ZERO_DIV"
	case Assert:
		return "ASSERT"
	case KeyNotFound:
		return "KEY_NOT_FOUND"
	case Parser:
		return "PARSER"
	case Import:
		return "IMPORT"
	case Custom:
		return "CUSTOM"
	default:
		return "UNKNOWN"
	}
}

// RuntimeError is the sole error type produced by the runtime core.
type RuntimeError struct {
	Kind Kind
	Msg  string
	Pos  ast.Pos
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
}

func New(kind Kind, pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func IncompatibleTypef(pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return New(IncompatibleType, pos, format, args...)
}

func FuncParamsf(pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return New(FuncParams, pos, format, args...)
}

func InvalidCommandf(pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return New(InvalidCommand, pos, format, args...)
}

func IDNotFoundf(pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return New(IDNotFound, pos, format, args...)
}

func OutOfRangef(pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return New(OutOfRange, pos, format, args...)
}

func ZeroDivf(pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return New(ZeroDiv, pos, format, args...)
}

func Assertf(pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return New(Assert, pos, format, args...)
}

func KeyNotFoundf(pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return New(KeyNotFound, pos, format, args...)
}

func Customf(pos ast.Pos, format string, args ...interface{}) *RuntimeError {
	return New(Custom, pos, format, args...)
}
