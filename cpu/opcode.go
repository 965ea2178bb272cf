package cpu

import (
	"github.com/ternsys/t3vm/word"
)

// Op is a numeric opcode. Wide opcodes live in the signed 3-trit field
// at trits [0..2]; mini sub-opcodes live in the 2-trit pair at [3,4]
// behind a zero wide field.
type Op int

// Wide opcodes. The wide field spans -13..13; zero selects the mini
// format and is therefore never a wide opcode.
const (
	OP_ADD    = Op(1)  // reg[a] += reg[b]
	OP_SUB    = Op(2)  // reg[a] -= reg[b]
	OP_AND    = Op(3)  // trit-wise min into reg[a]
	OP_OR     = Op(4)  // trit-wise max into reg[a]
	OP_JNZ    = Op(5)  // pc = pc+1+imm when reg[a] != 0
	OP_NOT    = Op(-1) // negate reg[a] in place
	OP_LD     = Op(-2) // parity-checked load mem[imm] into reg[a]
	OP_ST     = Op(-3) // store reg[a] into mem[imm]
	OP_JMP    = Op(-4) // pc = imm
	OP_JMPREL = Op(-5) // pc = pc+1+imm
	OP_CLD    = Op(-6) // load guarded by the capability in reg[b]
	OP_CST    = Op(-7) // store guarded by the capability in reg[b]
)

// Mini sub-opcodes. The pair field spans -4..4, so the mini set is a
// remapped subset of the wide one: the absolute jump is wide-only and
// the relative jump sits at -4.
const (
	MINI_HLT    = Op(0)  // stop cleanly
	MINI_ADD    = Op(1)  // reg[a] += reg[arg]
	MINI_SUB    = Op(2)  // reg[a] -= reg[arg]
	MINI_AND    = Op(3)  // trit-wise min into reg[a]
	MINI_OR     = Op(4)  // trit-wise max into reg[a]
	MINI_NOT    = Op(-1) // negate reg[a] in place
	MINI_LD     = Op(-2) // parity-checked load mem[arg] into reg[a]
	MINI_ST     = Op(-3) // store reg[a] into mem[arg]
	MINI_JMPREL = Op(-4) // pc = pc+1+arg
)

// Trit offsets of the wide instruction fields.
const (
	wideOpLo   = 0
	wideRegALo = 3
	wideRegBLo = 6
	wideImmLo  = 9
	wideField  = 3
)

// Trit offsets of the mini instruction pairs.
const (
	miniOpLo   = 3
	miniRegALo = 5
	miniArgLo  = 7
	miniField  = 2
)

// wideMnemonic and miniMnemonic are immutable lookup tables built once
// at module initialization, together with their inverses.
var wideMnemonic = map[Op]string{
	OP_ADD:    "ADD",
	OP_SUB:    "SUB",
	OP_AND:    "AND",
	OP_OR:     "OR",
	OP_JNZ:    "JNZ",
	OP_NOT:    "NOT",
	OP_LD:     "LD",
	OP_ST:     "ST",
	OP_JMP:    "JMP",
	OP_JMPREL: "JMPREL",
	OP_CLD:    "CLD",
	OP_CST:    "CST",
}

var miniMnemonic = map[Op]string{
	MINI_HLT:    "HLT",
	MINI_ADD:    "MADD",
	MINI_SUB:    "MSUB",
	MINI_AND:    "MAND",
	MINI_OR:     "MOR",
	MINI_NOT:    "MNOT",
	MINI_LD:     "MLD",
	MINI_ST:     "MST",
	MINI_JMPREL: "MJR",
}

var wideByName = map[string]Op{}
var miniByName = map[string]Op{}

func init() {
	for op, name := range wideMnemonic {
		wideByName[name] = op
	}
	for op, name := range miniMnemonic {
		miniByName[name] = op
	}
}

// Instruction is the ephemeral decode of one word. Produced fresh every
// fetch cycle, never persisted. For the mini format Imm holds the arg
// operand and RegB is unused.
type Instruction struct {
	Mini bool
	Op   Op
	RegA int
	RegB int
	Imm  int
}

// Decode inspects trits [0..2] to select the format and splits the
// word into fields.
func Decode(w word.Word) (inst Instruction) {
	op3 := w.Field(wideOpLo, wideField)
	if op3 != 0 {
		inst = Instruction{
			Op:   Op(op3),
			RegA: w.Field(wideRegALo, wideField),
			RegB: w.Field(wideRegBLo, wideField),
			Imm:  w.Field(wideImmLo, wideField),
		}
		return
	}

	inst = Instruction{
		Mini: true,
		Op:   Op(w.Field(miniOpLo, miniField)),
		RegA: w.Field(miniRegALo, miniField),
		Imm:  w.Field(miniArgLo, miniField),
	}
	return
}

// MakeWide encodes a wide instruction. Operands outside their signed
// 3-trit fields are an error, never truncated.
func MakeWide(op Op, regA, regB, imm int) (w word.Word, err error) {
	if op == 0 || wideMnemonic[op] == "" {
		err = ErrOpcodeInvalid
		return
	}
	w, err = w.SetField(wideOpLo, wideField, int(op))
	if err == nil {
		w, err = w.SetField(wideRegALo, wideField, regA)
	}
	if err == nil {
		w, err = w.SetField(wideRegBLo, wideField, regB)
	}
	if err == nil {
		w, err = w.SetField(wideImmLo, wideField, imm)
	}
	if err != nil {
		w = word.Word{}
	}
	return
}

// MakeMini encodes a mini instruction; each operand must fit its 2-trit
// pair (-4..4).
func MakeMini(op Op, regA, arg int) (w word.Word, err error) {
	if _, ok := miniMnemonic[op]; !ok {
		err = ErrOpcodeInvalid
		return
	}
	w, err = w.SetField(miniOpLo, miniField, int(op))
	if err == nil {
		w, err = w.SetField(miniRegALo, miniField, regA)
	}
	if err == nil {
		w, err = w.SetField(miniArgLo, miniField, arg)
	}
	if err != nil {
		w = word.Word{}
	}
	return
}
