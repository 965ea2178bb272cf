// Package machine couples the processor with an assembled program,
// giving hosts a single surface to assemble, load, run with a step
// budget, and map faults back to source lines.
package machine

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ternsys/t3vm/cpu"
	"github.com/ternsys/t3vm/internal"
	"github.com/ternsys/t3vm/word"
)

const (
	// DefaultMemWords sizes the address space when the host does not
	// care: 3^6 words.
	DefaultMemWords = 729

	// DefaultMaxSteps bounds a Run when the host passes no budget of
	// its own. The core has no notion of wall-clock time; a step
	// budget is its only timeout surface.
	DefaultMaxSteps = 100000
)

// Machine is the host shell around one CPU and one program.
type Machine struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // The processor simulation.

	Program *cpu.Program // Currently loaded program listing.

	defines map[string]string
}

// New creates a machine with the given memory capacity in words.
func New(memWords int) (m *Machine) {
	m = &Machine{
		Cpu:     cpu.New(memWords),
		Program: &cpu.Program{},
		defines: map[string]string{
			"MEM_SIZE": fmt.Sprintf("%v", memWords),
		},
	}
	return
}

// Defines returns an iterator over all equates the machine predefines
// for assembly.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(m.defines), m.Cpu.Defines())
}

// Load places an assembled program into memory and resets the CPU.
func (m *Machine) Load(prog *cpu.Program) (err error) {
	err = m.Cpu.LoadProgram(prog.Words())
	if err != nil {
		return
	}
	m.Program = prog
	return
}

// LoadAssembly assembles source text and loads the result.
func (m *Machine) LoadAssembly(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: m.Verbose}
	for name, value := range m.Defines() {
		asm.Predefine(name, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	return m.Load(prog)
}

// LoadWords converts raw integers to words and loads them at ascending
// addresses. Out-of-range integers are rejected, not truncated.
func (m *Machine) LoadWords(values []int) (err error) {
	prog := &cpu.Program{}
	for n, v := range values {
		var w word.Word
		w, err = word.FromInt(v)
		if err != nil {
			return
		}
		prog.Lines = append(prog.Lines, cpu.Line{Index: n, Word: w})
	}
	return m.Load(prog)
}

// LineNo returns the source line of the instruction under the program
// counter, or zero when the program has no source map there.
func (m *Machine) LineNo() int {
	return m.Program.LineNo(m.Cpu.PC())
}

// Disassemble renders the loaded program as a listing.
func (m *Machine) Disassemble() string {
	return cpu.Disassemble(m.Program.Words())
}

// Run steps the CPU until it halts or the budget runs out. A runtime
// fault is reported located at its source line; the machine stays
// inspectable either way.
func (m *Machine) Run(maxSteps int) (halted bool, err error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	m.Cpu.Verbose = m.Verbose

	n := m.Cpu.Run(maxSteps)
	halted = m.Cpu.Halted()

	if m.Verbose {
		log.Printf("machine: ran %v steps, halted=%v", n, halted)
	}

	if fault := m.Cpu.Fault(); fault != nil {
		err = &ErrRuntime{LineNo: m.LineNo(), Err: fault}
	}

	return
}
