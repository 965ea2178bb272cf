package cpu

import (
	"fmt"
	"strings"

	"github.com/ternsys/t3vm/word"
)

// DisassembleWord renders the word at program counter position pc as
// mnemonic text. Relative jumps carry their resolved absolute target as
// a trailing comment, which the assembler strips on re-entry. Words
// with no mapped opcode render as data; disassembly tolerates anything.
func DisassembleWord(pc int, w word.Word) string {
	inst := Decode(w)

	if inst.Mini {
		return disassembleMini(pc, w, inst)
	}
	return disassembleWide(pc, w, inst)
}

func disassembleWide(pc int, w word.Word, inst Instruction) string {
	name, ok := wideMnemonic[inst.Op]
	if !ok {
		return fmt.Sprintf("DATA %d", w.Int())
	}

	switch inst.Op {
	case OP_ADD, OP_SUB, OP_AND, OP_OR:
		return fmt.Sprintf("%v r%d r%d", name, inst.RegA, inst.RegB)
	case OP_NOT:
		return fmt.Sprintf("%v r%d", name, inst.RegA)
	case OP_LD, OP_ST:
		return fmt.Sprintf("%v r%d %d", name, inst.RegA, inst.Imm)
	case OP_JMP:
		return fmt.Sprintf("%v r%d %d", name, inst.RegA, inst.Imm)
	case OP_JMPREL, OP_JNZ:
		return fmt.Sprintf("%v r%d %d // -> %d", name, inst.RegA, inst.Imm, pc+1+inst.Imm)
	case OP_CLD, OP_CST:
		return fmt.Sprintf("%v r%d r%d %d", name, inst.RegA, inst.RegB, inst.Imm)
	}

	return fmt.Sprintf("DATA %d", w.Int())
}

func disassembleMini(pc int, w word.Word, inst Instruction) string {
	name, ok := miniMnemonic[inst.Op]
	if !ok {
		return fmt.Sprintf("DATA %d", w.Int())
	}

	switch inst.Op {
	case MINI_HLT:
		return name
	case MINI_NOT:
		return fmt.Sprintf("%v r%d", name, inst.RegA)
	case MINI_ADD, MINI_SUB, MINI_AND, MINI_OR:
		return fmt.Sprintf("%v r%d r%d", name, inst.RegA, inst.Imm)
	case MINI_LD, MINI_ST:
		return fmt.Sprintf("%v r%d %d", name, inst.RegA, inst.Imm)
	case MINI_JMPREL:
		return fmt.Sprintf("%v r%d %d // -> %d", name, inst.RegA, inst.Imm, pc+1+inst.Imm)
	}

	return fmt.Sprintf("DATA %d", w.Int())
}

// Disassemble renders a word sequence one instruction per line, each
// formatted as "<address>: <mnemonic> <operands>".
func Disassemble(words []word.Word) string {
	var out strings.Builder
	for pc, w := range words {
		fmt.Fprintf(&out, "%d: %v\n", pc, DisassembleWord(pc, w))
	}
	return out.String()
}
