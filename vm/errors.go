package vm

import (
	"errors"
	"fmt"
)

// Stack machine errors.
var (
	// ErrNotRunning is returned when operand stack access happens outside Run.
	ErrNotRunning = errors.New("vm: machine is not running")

	// ErrAlreadyRun is returned when Run is called more than once.
	ErrAlreadyRun = errors.New("vm: machine already ran")

	// ErrUnderflow is returned when popping with no visible value.
	ErrUnderflow = errors.New("vm: stack underflow")

	// ErrStackOverflow is returned when the operand stack is full.
	ErrStackOverflow = errors.New("vm: stack overflow, increase stack-height")

	// ErrTypeMismatch is returned when the top value has the wrong type.
	ErrTypeMismatch = errors.New("vm: type mismatch")

	// ErrGroupOverflow is returned when groups nest too deeply.
	ErrGroupOverflow = errors.New("vm: too much group nesting")

	// ErrGroupBalance is returned when a group does not yield exactly one value.
	ErrGroupBalance = errors.New("vm: group must result in exactly one value")

	// ErrOpenGroup is returned when input ends inside a group.
	ErrOpenGroup = errors.New("vm: unclosed group at end of input")

	// ErrResult is returned when input ends without exactly one node on the stack.
	ErrResult = errors.New("vm: script must leave exactly one node on the stack")

	// ErrUnexpectedEntity is returned for entities not allowed in a script body.
	ErrUnexpectedEntity = errors.New("vm: unsupported entity")

	// ErrBadNumeric is returned for numeric literals that are malformed or not finite.
	ErrBadNumeric = errors.New("vm: invalid numeric literal")

	// ErrBadColor is returned for curly literals that are not eight hex digits.
	ErrBadColor = errors.New("vm: invalid color literal")

	// ErrBadString is returned for quoted literals with characters outside
	// printable ASCII.
	ErrBadString = errors.New("vm: illegal characters in string literal")

	// ErrStringPrefix is returned for string literals carrying a prefix.
	ErrStringPrefix = errors.New("vm: string literals may not have prefixes")

	// ErrStringTooLong is returned for strings longer than MaxStringLen.
	ErrStringTooLong = errors.New("vm: string too long")

	// ErrNonFinite is returned when constructing a Float from NaN or infinity.
	ErrNonFinite = errors.New("vm: float must be finite")
)

// Namespace errors.
var (
	// ErrInvalidName is returned for names that break the naming rule.
	ErrInvalidName = errors.New("vm: invalid name")

	// ErrRedeclared is returned when declaring a name twice.
	ErrRedeclared = errors.New("vm: name already declared")

	// ErrUndeclared is returned when using a name that was never declared.
	ErrUndeclared = errors.New("vm: undeclared name")

	// ErrConstant is returned when assigning to a constant.
	ErrConstant = errors.New("vm: can't assign value to constant")

	// ErrNamespaceFull is returned when the name limit is reached.
	ErrNamespaceFull = errors.New("vm: too many variables/constants, increase name-limit")
)

// Registry errors.
var (
	// ErrDuplicateOp is returned when registering a name twice.
	ErrDuplicateOp = errors.New("vm: operation already registered")

	// ErrTooManyOps is returned when the operation table is full.
	ErrTooManyOps = errors.New("vm: too many operations")

	// ErrRegistryFrozen is returned when registering after interpretation began.
	ErrRegistryFrozen = errors.New("vm: registry is frozen")

	// ErrUnknownOp is returned when dispatching an unregistered name.
	ErrUnknownOp = errors.New("vm: unknown operation")

	// ErrNilOp is returned when registering a nil callback.
	ErrNilOp = errors.New("vm: nil operation")
)

// LineError attaches the originating script line to an error.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
