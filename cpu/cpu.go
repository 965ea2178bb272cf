package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ternsys/t3vm/capability"
	"github.com/ternsys/t3vm/word"
)

// NumRegs is the register file size. Decoded register indexes outside
// 0..NumRegs-1 wrap around rather than fault.
const NumRegs = 4

var _cpu_defines = map[string]string{
	"NUM_REGS":   fmt.Sprintf("%v", NumRegs),
	"WORD_TRITS": fmt.Sprintf("%v", word.Trits),
	"WORD_MAX":   fmt.Sprintf("%v", word.MaxInt),
	"WORD_MIN":   fmt.Sprintf("%v", word.MinInt),
}

// Cpu is the processor state: register file, program counter, memory
// with its parity table, and the terminal halted flag.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Mem *Memory // Word storage plus parity table.

	Ticks int // Executed instruction counter.

	reg    [NumRegs]word.Word
	pc     int
	halted bool
	fault  error
}

// New creates a CPU with a memory of the given word capacity.
func New(memWords int) (c *Cpu) {
	c = &Cpu{
		Mem: NewMemory(memWords),
	}
	return
}

// Defines for the cpu.
func (c *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// regIndex normalizes a decoded register index by wraparound.
func regIndex(i int) int {
	return ((i % NumRegs) + NumRegs) % NumRegs
}

// Reg returns the register selected by i, wrapping the index.
func (c *Cpu) Reg(i int) word.Word {
	return c.reg[regIndex(i)]
}

// SetReg stores w in the register selected by i, wrapping the index.
// Hosts use it to seed capability words before execution.
func (c *Cpu) SetReg(i int, w word.Word) {
	c.reg[regIndex(i)] = w
}

// PC returns the current program counter.
func (c *Cpu) PC() int {
	return c.pc
}

// Halted reports whether the machine has stopped. Halted is terminal.
func (c *Cpu) Halted() bool {
	return c.halted
}

// Fault returns the diagnostic that halted the machine, or nil after a
// clean HLT or while still running.
func (c *Cpu) Fault() error {
	return c.fault
}

// LoadProgram resets the machine and places the program words at
// ascending addresses from zero through the checked write path.
func (c *Cpu) LoadProgram(words []word.Word) (err error) {
	if len(words) > c.Mem.Len() {
		return ErrAddress(len(words) - 1)
	}

	c.Mem.Reset()
	clear(c.reg[:])
	c.pc = 0
	c.halted = false
	c.fault = nil
	c.Ticks = 0

	for addr, w := range words {
		err = c.Mem.Write(addr, w)
		if err != nil {
			return
		}
	}

	if c.Verbose {
		log.Printf("cpu: loaded %v words", len(words))
	}

	return
}

// Step executes one fetch-decode-execute cycle. It reports whether a
// cycle ran; on a halted machine it is a no-op returning false. Faults
// never escape: they set the halted flag and the diagnostic.
func (c *Cpu) Step() bool {
	if c.halted {
		return false
	}

	halt, err := c.step()
	if err != nil {
		c.halted = true
		c.fault = err
		if c.Verbose {
			log.Printf("cpu: fault at pc %v: %v", c.pc, err)
		}
	} else if halt {
		c.halted = true
		if c.Verbose {
			log.Printf("cpu: halt at pc %v", c.pc)
		}
	}

	return true
}

// Run steps until the machine halts or maxSteps cycles have executed,
// returning the number of cycles taken. The step bound is the only
// notion of time the core has.
func (c *Cpu) Run(maxSteps int) (n int) {
	for n < maxSteps && c.Step() {
		n++
	}
	return
}

// step performs one cycle, leaving pc untouched when it faults so the
// faulting instruction stays inspectable.
func (c *Cpu) step() (halt bool, err error) {
	if c.pc < 0 || c.pc >= c.Mem.Len() {
		err = ErrPcBounds(c.pc)
		return
	}

	w, err := c.Mem.Peek(c.pc)
	if err != nil {
		return
	}

	inst := Decode(w)

	if c.Verbose {
		log.Printf("%4d: %v", c.pc, DisassembleWord(c.pc, w))
	}

	next := c.pc + 1
	a := regIndex(inst.RegA)

	if inst.Mini {
		halt, next, err = c.executeMini(w, inst, a, next)
	} else {
		next, err = c.executeWide(w, inst, a, next)
	}
	if halt || err != nil {
		return
	}

	c.pc = next
	c.Ticks++
	return
}

func (c *Cpu) executeWide(w word.Word, inst Instruction, a, next int) (pc int, err error) {
	pc = next

	switch inst.Op {
	case OP_ADD:
		c.reg[a] = word.Add(c.reg[a], c.Reg(inst.RegB))
	case OP_SUB:
		c.reg[a] = word.Sub(c.reg[a], c.Reg(inst.RegB))
	case OP_AND:
		c.reg[a] = word.And(c.reg[a], c.Reg(inst.RegB))
	case OP_OR:
		c.reg[a] = word.Or(c.reg[a], c.Reg(inst.RegB))
	case OP_NOT:
		c.reg[a] = word.Neg(c.reg[a])
	case OP_LD:
		err = c.load(a, inst.Imm)
	case OP_ST:
		err = c.store(a, inst.Imm)
	case OP_JMP:
		pc = inst.Imm
	case OP_JMPREL:
		pc = next + inst.Imm
	case OP_JNZ:
		if c.reg[a].Int() != 0 {
			pc = next + inst.Imm
		}
	case OP_CLD:
		if !capability.CheckLoad(c.Reg(inst.RegB), inst.Imm) {
			err = ErrCapability{Addr: inst.Imm}
			return
		}
		err = c.load(a, inst.Imm)
	case OP_CST:
		if !capability.CheckStore(c.Reg(inst.RegB), inst.Imm) {
			err = ErrCapability{Addr: inst.Imm, Store: true}
			return
		}
		err = c.store(a, inst.Imm)
	default:
		err = ErrOpcode(w)
	}

	return
}

func (c *Cpu) executeMini(w word.Word, inst Instruction, a, next int) (halt bool, pc int, err error) {
	pc = next

	switch inst.Op {
	case MINI_HLT:
		halt = true
	case MINI_ADD:
		c.reg[a] = word.Add(c.reg[a], c.Reg(inst.Imm))
	case MINI_SUB:
		c.reg[a] = word.Sub(c.reg[a], c.Reg(inst.Imm))
	case MINI_AND:
		c.reg[a] = word.And(c.reg[a], c.Reg(inst.Imm))
	case MINI_OR:
		c.reg[a] = word.Or(c.reg[a], c.Reg(inst.Imm))
	case MINI_NOT:
		c.reg[a] = word.Neg(c.reg[a])
	case MINI_LD:
		err = c.load(a, inst.Imm)
	case MINI_ST:
		err = c.store(a, inst.Imm)
	case MINI_JMPREL:
		pc = next + inst.Imm
	default:
		err = ErrOpcode(w)
	}

	return
}

// load performs an integrity-checked load into register a. A parity
// mismatch surfaces as the fault; the corrupted word never reaches the
// register file.
func (c *Cpu) load(a, addr int) (err error) {
	w, err := c.Mem.Read(addr)
	if err != nil {
		return
	}
	c.reg[a] = w
	return
}

// store writes register a through the checked path, recording parity.
func (c *Cpu) store(a, addr int) (err error) {
	return c.Mem.Write(addr, c.reg[a])
}

// String returns the current CPU state for diagnosis of a halted
// machine.
func (c *Cpu) String() (text string) {
	text = fmt.Sprintf("   pc: %v\n", c.pc)
	state := "running"
	if c.halted {
		state = "halted"
		if c.fault != nil {
			state = fmt.Sprintf("halted (%v)", c.fault)
		}
	}
	text += fmt.Sprintf("state: %v\n", state)
	for n := range NumRegs {
		text += fmt.Sprintf("   r%d: %v (%v)\n", n, c.reg[n].String(), c.reg[n].Int())
	}
	return
}
