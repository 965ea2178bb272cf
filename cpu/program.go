package cpu

import (
	"iter"

	"github.com/ternsys/t3vm/word"
)

// Line is one assembled instruction with its source location.
type Line struct {
	LineNo int       // Source line number.
	Index  int       // Instruction memory address.
	Text   string    // Resolved source text.
	Word   word.Word // Encoded instruction.
}

// Program is the assembler output: an ordered word sequence whose
// positions equal instruction memory addresses, with a source map.
type Program struct {
	Lines []Line
}

// Words returns the encoded instruction words in address order.
func (prog *Program) Words() (words []word.Word) {
	words = make([]word.Word, len(prog.Lines))
	for n, line := range prog.Lines {
		words[n] = line.Word
	}
	return
}

// Codes iterates over (address, word) pairs.
func (prog *Program) Codes() iter.Seq2[int, word.Word] {
	return func(yield func(int, word.Word) bool) {
		for _, line := range prog.Lines {
			if !yield(line.Index, line.Word) {
				return
			}
		}
	}
}

// LineNo maps an instruction address back to its source line, or zero
// when the address is outside the program.
func (prog *Program) LineNo(index int) int {
	if index < 0 || index >= len(prog.Lines) {
		return 0
	}
	return prog.Lines[index].LineNo
}
