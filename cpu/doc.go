// Package cpu implements the balanced-ternary processor core, its
// integrity-checked memory, and the assembler and disassembler for its
// instruction set.
//
// The CPU has four word registers (r0-r3), a program counter, and a
// word-addressed memory with a per-address parity table. Instructions
// occupy one word each and come in two encodings: a wide format with
// four signed 3-trit fields, and a mini format packing three 2-trit
// pairs behind a zero opcode field. Runtime faults never escape the
// execution loop; they halt the machine and leave a diagnostic behind.
//
// The assembler is a two-pass macro assembler: an expansion pass
// handles comments, equates, macros and loop frames, and a pure
// resolution pass binds labels and encodes words.
package cpu
