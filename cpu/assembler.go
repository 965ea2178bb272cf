package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ternsys/t3vm/word"
)

// ExpandLimit is the hard ceiling on processed lines during macro
// expansion, bounding circular USE chains.
const ExpandLimit = 10000

// defaultLoopReg is the register a bare LOOP conditions on.
const defaultLoopReg = 3

// Macro is a named, verbatim list of source lines collected in the
// expansion pass and spliced in at every USE.
type Macro struct {
	LineNo int      // Line number of the first body line.
	Lines  []string // Unexpanded body.
}

// srcLine is one expanded instruction line awaiting resolution.
type srcLine struct {
	LineNo int
	Tokens []string
}

// loopFrame records an open LOOP while its body is emitted.
type loopFrame struct {
	Index  int // Instruction index of the first body line.
	Reg    int // Loop register.
	LineNo int
}

// Assembler is the two-pass macro assembler. Pass one expands comments,
// equates, macros and loop frames into an immutable instruction line
// list; pass two resolves labels and encodes words over that list.
// All state is local to one Parse invocation.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Label  map[string]int    // Map of labels to instruction indexes.
	Equate map[string]string // Map of equates.
	Macro  map[string]*Macro // Map of macros.

	predefine map[string]string
}

// Predefine defines an equate visible to every subsequent Parse.
func (asm *Assembler) Predefine(name string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// fields splits a line into whitespace- or comma-separated tokens.
func fields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// stripComment removes a trailing // comment and surrounding space.
func stripComment(text string) string {
	if n := strings.Index(text, "//"); n >= 0 {
		text = text[:n]
	}
	return strings.TrimSpace(text)
}

// parseReg parses a register token of the form r<digit(s)>. Negative
// indexes are legal; the register file wraps them.
func parseReg(tok string) (reg int, err error) {
	if len(tok) < 2 || tok[0] != 'r' {
		err = ErrParseRegister(tok)
		return
	}
	reg, aerr := strconv.Atoi(tok[1:])
	if aerr != nil {
		err = ErrParseRegister(tok)
	}
	return
}

// parseInt parses a numeric operand in any base strconv accepts.
func parseInt(tok string) (v int, err error) {
	v64, aerr := strconv.ParseInt(tok, 0, 64)
	if aerr != nil {
		err = ErrParseNumber(tok)
		return
	}
	v = int(v64)
	return
}

var parenRe = regexp.MustCompile(`\$\([^)]*\)`)

// parenEval does compile-time $(...) evaluations with the current
// integer equates predeclared.
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(v64))
	}
	prog := "rc=" + expr + "\n"
	dict, xerr := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if xerr != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// evalParens substitutes every $(...) occurrence with its value.
func (asm *Assembler) evalParens(line string) (out string, err error) {
	out = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, perr := asm.parenEval(str[2 : len(str)-1])
		if perr != nil {
			err = perr
		}
		return strconv.Itoa(value)
	})
	return
}

// Parse assembles an input stream into a Program. Any error aborts the
// whole assembly; no partial program is ever returned.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			prog = nil
		}
	}()

	asm.Label = make(map[string]int, 16)
	if asm.Macro == nil {
		asm.Macro = make(map[string]*Macro)
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(_cpu_defines)
	asm.Equate["LINENO"] = "0"
	maps.Copy(asm.Equate, asm.predefine)

	var expanded []srcLine
	var loops []loopFrame
	var processed int

	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		if asm.Verbose {
			log.Printf("%v: %v", lineno, text)
		}

		line = stripComment(text)
		tokens := fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "MACRO":
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(tokens) != 2 {
				err = ErrMacroSyntax
				return
			}
			if _, ok := asm.Macro[tokens[1]]; ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{LineNo: lineno + 1}
			asm.Macro[tokens[1]] = macro
			continue
		case "ENDMACRO":
			if macro == nil {
				err = ErrMacroLonelyEnd
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		err = asm.expandLine(line, lineno, &expanded, &processed, &loops)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}
	if len(loops) > 0 {
		frame := loops[len(loops)-1]
		lineno, line = frame.LineNo, "LOOP"
		err = ErrLoopLonely
		return
	}

	// Pass two: pure resolution over the immutable expanded list.
	prog = &Program{}
	for index, src := range expanded {
		lineno = src.LineNo
		line = strings.Join(src.Tokens, " ")

		var w word.Word
		w, err = asm.encode(src, index)
		if err != nil {
			return
		}
		prog.Lines = append(prog.Lines, Line{
			LineNo: src.LineNo,
			Index:  index,
			Text:   line,
			Word:   w,
		})
	}

	return
}

// expandLine processes one source line of the expansion pass, splicing
// macros recursively and tracking loop frames. Labels bind to the index
// of the next emitted instruction and occupy no slot themselves.
func (asm *Assembler) expandLine(line string, lineno int, out *[]srcLine, processed *int, loops *[]loopFrame) (err error) {
	*processed++
	if *processed > ExpandLimit {
		return ErrMacroDepth
	}

	asm.Equate["LINENO"] = strconv.Itoa(lineno)

	line, err = asm.evalParens(line)
	if err != nil {
		return
	}

	tokens := fields(line)
	if len(tokens) == 0 {
		return
	}

	// EQU NAME VALUE
	if tokens[0] == "EQU" {
		if len(tokens) != 3 {
			return ErrEquateSyntax
		}
		if _, ok := asm.Equate[tokens[1]]; ok {
			return ErrEquateDuplicate
		}
		asm.Equate[tokens[1]] = tokens[2]
		return
	}

	for n, tok := range tokens {
		if sub, ok := asm.Equate[tok]; ok {
			tokens[n] = sub
		}
	}

	for strings.HasSuffix(tokens[0], ":") {
		label := strings.TrimSuffix(tokens[0], ":")
		if _, ok := asm.Label[label]; ok {
			return ErrLabelDuplicate
		}
		asm.Label[label] = len(*out)
		tokens = tokens[1:]
		if len(tokens) == 0 {
			return
		}
	}

	switch tokens[0] {
	case "USE":
		if len(tokens) != 2 {
			return ErrMacroSyntax
		}
		macro, ok := asm.Macro[tokens[1]]
		if !ok {
			return ErrMacroMissing(tokens[1])
		}
		for n, body := range macro.Lines {
			err = asm.expandLine(body, macro.LineNo+n, out, processed, loops)
			if err != nil {
				return
			}
		}
		return
	case "LOOP":
		if len(tokens) > 2 {
			return ErrOperandExtra
		}
		reg := defaultLoopReg
		if len(tokens) == 2 {
			reg, err = parseReg(tokens[1])
			if err != nil {
				return
			}
		}
		*loops = append(*loops, loopFrame{Index: len(*out), Reg: reg, LineNo: lineno})
		return
	case "ENDLOOP":
		if len(tokens) != 1 {
			return ErrOperandExtra
		}
		if len(*loops) == 0 {
			return ErrLoopLonelyEnd
		}
		frame := (*loops)[len(*loops)-1]
		*loops = (*loops)[:len(*loops)-1]
		// The back edge lands on the first line of the loop body.
		off := frame.Index - (len(*out) + 1)
		tokens = []string{"JNZ", fmt.Sprintf("r%d", frame.Reg), strconv.Itoa(off)}
	}

	*out = append(*out, srcLine{LineNo: lineno, Tokens: tokens})
	return
}

// absJump mnemonics take labels as absolute indexes; relJump ones as
// offsets from the following instruction.
var absJump = map[string]bool{
	"JMP": true,
}

var relJump = map[string]bool{
	"JMPREL": true,
	"JNZ":    true,
	"MJR":    true,
}

// operand parses tok as a number, reporting a missing label when a
// jump names something that never got bound.
func operand(name, tok string) (v int, err error) {
	v, err = parseInt(tok)
	if err != nil && (absJump[name] || relJump[name]) {
		err = ErrLabelMissing(tok)
	}
	return
}

// encode resolves labels in one instruction line and encodes it.
func (asm *Assembler) encode(src srcLine, index int) (w word.Word, err error) {
	tokens := slices.Clone(src.Tokens)
	name := tokens[0]
	ops := tokens[1:]

	for n, tok := range ops {
		target, ok := asm.Label[tok]
		if !ok {
			continue
		}
		switch {
		case absJump[name]:
			ops[n] = strconv.Itoa(target)
		case relJump[name]:
			ops[n] = strconv.Itoa(target - (index + 1))
		}
	}

	if op, ok := wideByName[name]; ok {
		return asm.encodeWide(op, name, ops)
	}
	if op, ok := miniByName[name]; ok {
		return asm.encodeMini(op, name, ops)
	}

	err = ErrMnemonicUnknown(name)
	return
}

func (asm *Assembler) encodeWide(op Op, name string, ops []string) (w word.Word, err error) {
	var a, b, imm int

	switch op {
	case OP_ADD, OP_SUB, OP_AND, OP_OR:
		if len(ops) < 2 {
			err = ErrOperandMissing
			return
		}
		if len(ops) > 2 {
			err = ErrOperandExtra
			return
		}
		if a, err = parseReg(ops[0]); err != nil {
			return
		}
		if b, err = parseReg(ops[1]); err != nil {
			return
		}
	case OP_NOT:
		if len(ops) != 1 {
			err = ErrOperandMissing
			if len(ops) > 1 {
				err = ErrOperandExtra
			}
			return
		}
		if a, err = parseReg(ops[0]); err != nil {
			return
		}
	case OP_LD, OP_ST:
		if len(ops) < 2 {
			err = ErrOperandMissing
			return
		}
		if len(ops) > 2 {
			err = ErrOperandExtra
			return
		}
		if a, err = parseReg(ops[0]); err != nil {
			return
		}
		if imm, err = operand(name, ops[1]); err != nil {
			return
		}
	case OP_JMP, OP_JMPREL, OP_JNZ:
		// The register operand may be omitted for plain jumps.
		switch len(ops) {
		case 1:
			if op == OP_JNZ {
				err = ErrOperandMissing
				return
			}
			if imm, err = operand(name, ops[0]); err != nil {
				return
			}
		case 2:
			if a, err = parseReg(ops[0]); err != nil {
				return
			}
			if imm, err = operand(name, ops[1]); err != nil {
				return
			}
		default:
			err = ErrOperandMissing
			if len(ops) > 2 {
				err = ErrOperandExtra
			}
			return
		}
	case OP_CLD, OP_CST:
		if len(ops) < 3 {
			err = ErrOperandMissing
			return
		}
		if len(ops) > 3 {
			err = ErrOperandExtra
			return
		}
		if a, err = parseReg(ops[0]); err != nil {
			return
		}
		if b, err = parseReg(ops[1]); err != nil {
			return
		}
		if imm, err = operand(name, ops[2]); err != nil {
			return
		}
	}

	return MakeWide(op, a, b, imm)
}

func (asm *Assembler) encodeMini(op Op, name string, ops []string) (w word.Word, err error) {
	var a, arg int

	switch op {
	case MINI_HLT:
		if len(ops) != 0 {
			err = ErrOperandExtra
			return
		}
	case MINI_NOT:
		if len(ops) != 1 {
			err = ErrOperandMissing
			if len(ops) > 1 {
				err = ErrOperandExtra
			}
			return
		}
		if a, err = parseReg(ops[0]); err != nil {
			return
		}
	case MINI_ADD, MINI_SUB, MINI_AND, MINI_OR:
		if len(ops) < 2 {
			err = ErrOperandMissing
			return
		}
		if len(ops) > 2 {
			err = ErrOperandExtra
			return
		}
		if a, err = parseReg(ops[0]); err != nil {
			return
		}
		if arg, err = parseReg(ops[1]); err != nil {
			return
		}
	case MINI_LD, MINI_ST, MINI_JMPREL:
		if len(ops) < 2 {
			err = ErrOperandMissing
			return
		}
		if len(ops) > 2 {
			err = ErrOperandExtra
			return
		}
		if a, err = parseReg(ops[0]); err != nil {
			return
		}
		if arg, err = operand(name, ops[1]); err != nil {
			return
		}
	}

	return MakeMini(op, a, arg)
}
