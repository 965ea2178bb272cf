package cpu

import (
	"errors"

	"github.com/ternsys/t3vm/translate"
	"github.com/ternsys/t3vm/word"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax    = errors.New(f("EQU syntax"))
	ErrEquateDuplicate = errors.New(f("EQU duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMacroSyntax     = errors.New(f("MACRO syntax"))
	ErrMacroNesting    = errors.New(f("MACRO in MACRO prohibited"))
	ErrMacroDuplicate  = errors.New(f("MACRO duplicated"))
	ErrMacroLonely     = errors.New(f("MACRO without ENDMACRO"))
	ErrMacroLonelyEnd  = errors.New(f("ENDMACRO without MACRO"))
	ErrMacroDepth      = errors.New(f("macro expansion limit exceeded"))
	ErrLoopLonely      = errors.New(f("LOOP without ENDLOOP"))
	ErrLoopLonelyEnd   = errors.New(f("ENDLOOP without LOOP"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
)

// ErrSyntax locates an assembly error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrMnemonicUnknown reports an unrecognized instruction name.
type ErrMnemonicUnknown string

func (err ErrMnemonicUnknown) Error() string {
	return f("'%v' is not an instruction or directive", string(err))
}

// ErrMacroMissing reports a USE of an undefined macro.
type ErrMacroMissing string

func (err ErrMacroMissing) Error() string {
	return f("macro %v missing", string(err))
}

// ErrLabelMissing reports a jump to an undefined label.
type ErrLabelMissing string

func (err ErrLabelMissing) Error() string {
	return f("label %v missing", string(err))
}

// ErrParseNumber reports an operand that is neither a number nor a
// known symbol.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseRegister reports an operand where a register was expected.
type ErrParseRegister string

func (err ErrParseRegister) Error() string {
	return f("'%v' is not a register", string(err))
}

// ErrParseExpression reports a $() expression that failed to evaluate.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// Runtime faults. These halt the CPU and are surfaced through Fault(),
// never as an escaped error.

// ErrAddress reports a memory access outside the address space.
type ErrAddress int

func (err ErrAddress) Error() string {
	return f("address %d out of bounds", int(err))
}

// ErrParity reports an ECC mismatch on load.
type ErrParity int

func (err ErrParity) Error() string {
	return f("memory integrity fault at address %d", int(err))
}

// ErrPcBounds reports a program counter outside memory.
type ErrPcBounds int

func (err ErrPcBounds) Error() string {
	return f("program counter %d out of bounds", int(err))
}

// ErrOpcode reports an unmapped opcode word.
type ErrOpcode word.Word

func (err ErrOpcode) Error() string {
	return f("unmapped opcode %v", word.Word(err).String())
}

func (err ErrOpcode) Is(other error) (ok bool) {
	_, ok = other.(ErrOpcode)
	return
}

// ErrCapability reports a denied capability-guarded access.
type ErrCapability struct {
	Addr  int
	Store bool
}

func (err ErrCapability) Error() string {
	kind := "load"
	if err.Store {
		kind = "store"
	}
	return f("capability check failed for %v at address %d", kind, err.Addr)
}
