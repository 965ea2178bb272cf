package cpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternsys/t3vm/word"
)

func TestDisassembleFidelity(t *testing.T) {
	assert := assert.New(t)

	// Every mnemonic the assembler can encode survives a round trip
	// through the disassembler with identical decoded fields.
	table := []string{
		"ADD r0 r1",
		"SUB r2 r3",
		"AND r1 r2",
		"OR r3 r0",
		"NOT r2",
		"LD r0 9",
		"ST r1 -9",
		"JMP r0 5",
		"JMPREL r0 -2",
		"JNZ r1 3",
		"CLD r0 r1 7",
		"CST r2 r3 -7",
		"HLT",
		"MADD r0 r1",
		"MSUB r1 r2",
		"MAND r2 r3",
		"MOR r3 r0",
		"MNOT r1",
		"MLD r0 4",
		"MST r1 -4",
		"MJR r0 -2",
	}

	for _, line := range table {
		prog := assemble(t, line)
		w := prog.Lines[0].Word

		text := DisassembleWord(0, w)
		back := assemble(t, text)
		assert.Equal(w, back.Lines[0].Word, "%v -> %v", line, text)
		assert.Equal(Decode(w), Decode(back.Lines[0].Word), line)
	}
}

func TestDisassembleRelativeAnnotation(t *testing.T) {
	assert := assert.New(t)

	w := mustWide(t, OP_JMPREL, 0, 0, -2)
	assert.Equal("JMPREL r0 -2 // -> 3", DisassembleWord(4, w))

	w = mustWide(t, OP_JNZ, 1, 0, 3)
	assert.Equal("JNZ r1 3 // -> 14", DisassembleWord(10, w))

	w = mustMini(t, MINI_JMPREL, 0, 2)
	assert.Equal("MJR r0 2 // -> 8", DisassembleWord(5, w))
}

func TestDisassembleUnknown(t *testing.T) {
	assert := assert.New(t)

	// An unmapped wide opcode renders as data, never an error.
	junk, err := word.Word{}.SetField(0, 3, 7)
	assert.NoError(err)
	assert.Equal(fmt.Sprintf("DATA %d", junk.Int()), DisassembleWord(0, junk))

	// Arbitrary data interpreted as code still disassembles.
	w, err := word.FromInt(word.MaxInt)
	assert.NoError(err)
	assert.Equal(fmt.Sprintf("DATA %d", word.MaxInt), DisassembleWord(0, w))
}

func TestDisassembleListing(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"ADD r0 r1",
		"HLT",
	)

	listing := Disassemble(prog.Words())
	lines := strings.Split(strings.TrimRight(listing, "\n"), "\n")
	assert.Equal([]string{
		"0: ADD r0 r1",
		"1: HLT",
	}, lines)
}
