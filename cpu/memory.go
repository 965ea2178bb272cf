package cpu

import (
	"github.com/ternsys/t3vm/word"
)

// Memory is word-addressed storage with a per-address parity table.
// The table records the ECC parity of the word most recently written
// through the checked path; loads re-derive the parity of whatever is
// stored and fault on mismatch, which detects mutation that bypassed
// the checked write.
type Memory struct {
	words  []word.Word
	parity []uint8
}

// NewMemory creates a memory of the given word capacity. The parity
// table is created alongside and lives as long as the memory.
func NewMemory(size int) *Memory {
	return &Memory{
		words:  make([]word.Word, size),
		parity: make([]uint8, size),
	}
}

// Len returns the word capacity.
func (m *Memory) Len() int {
	return len(m.words)
}

// Reset zeroes the storage and the parity table. The zero word has
// parity zero, so the two stay consistent.
func (m *Memory) Reset() {
	clear(m.words)
	clear(m.parity)
}

// Write stores w at addr through the checked path, recording its
// parity.
func (m *Memory) Write(addr int, w word.Word) (err error) {
	if addr < 0 || addr >= len(m.words) {
		return ErrAddress(addr)
	}
	m.words[addr] = w
	m.parity[addr] = w.Parity()
	return
}

// Read loads the word at addr, verifying its parity against the
// recorded value. On mismatch the stored word is never returned.
func (m *Memory) Read(addr int) (w word.Word, err error) {
	if addr < 0 || addr >= len(m.words) {
		err = ErrAddress(addr)
		return
	}
	w = m.words[addr]
	if w.Parity() != m.parity[addr] {
		err = ErrParity(addr)
		w = word.Word{}
	}
	return
}

// Poke stores w at addr without touching the parity table. This is the
// out-of-band mutation path; a later Read of the address faults unless
// the poked word happens to carry the recorded parity.
func (m *Memory) Poke(addr int, w word.Word) (err error) {
	if addr < 0 || addr >= len(m.words) {
		return ErrAddress(addr)
	}
	m.words[addr] = w
	return
}

// Peek loads the word at addr without a parity check. Instruction fetch
// and the disassembler use this path.
func (m *Memory) Peek(addr int) (w word.Word, err error) {
	if addr < 0 || addr >= len(m.words) {
		err = ErrAddress(addr)
		return
	}
	w = m.words[addr]
	return
}
