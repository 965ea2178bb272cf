package machine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternsys/t3vm/cpu"
	"github.com/ternsys/t3vm/word"
)

func TestMachineAssembleAndRun(t *testing.T) {
	assert := assert.New(t)

	m := New(DefaultMemWords)

	program := []string{
		"// straight-line smoke test",
		"EQU SCRATCH 6",
		"ST r0 SCRATCH",
		"LD r1 SCRATCH",
		"NOT r1",
		"HLT",
	}
	err := m.LoadAssembly(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	halted, err := m.Run(0)
	assert.NoError(err)
	assert.True(halted)
	assert.Equal(0, m.Cpu.Reg(1).Int())
}

func TestMachineCountdown(t *testing.T) {
	assert := assert.New(t)

	m := New(64)

	program := []string{
		"LOOP r0",
		"ADD r2 r1",
		"SUB r0 r1",
		"ENDLOOP",
		"HLT",
	}
	err := m.LoadAssembly(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	m.Cpu.SetReg(0, wordInt(t, 4))
	m.Cpu.SetReg(1, wordInt(t, 1))

	halted, err := m.Run(1000)
	assert.NoError(err)
	assert.True(halted)
	assert.Equal(4, m.Cpu.Reg(2).Int())
	assert.Equal(0, m.Cpu.Reg(0).Int())
}

func wordInt(t *testing.T, n int) word.Word {
	t.Helper()
	w, err := word.FromInt(n)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestMachinePredefines(t *testing.T) {
	assert := assert.New(t)

	m := New(13)

	// MEM_SIZE and the CPU constants are visible as equates.
	err := m.LoadAssembly(strings.NewReader("LD r0 MEM_SIZE"))
	assert.NoError(err)
	assert.Equal(13, cpu.Decode(m.Program.Lines[0].Word).Imm)

	err = m.LoadAssembly(strings.NewReader("LD r0 $(NUM_REGS * 2)"))
	assert.NoError(err)
	assert.Equal(8, cpu.Decode(m.Program.Lines[0].Word).Imm)
}

func TestMachineRuntimeFaultLocation(t *testing.T) {
	assert := assert.New(t)

	m := New(64)

	program := []string{
		"// a read-only window over [4,8)",
		"ADD r0 r0",
		"CST r0 r1 5",
	}
	err := m.LoadAssembly(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	halted, err := m.Run(100)
	assert.True(halted)
	assert.Error(err)

	var re *ErrRuntime
	assert.ErrorAs(err, &re)
	assert.Equal(3, re.LineNo, "fault located at the CST source line")
	assert.ErrorIs(err, cpu.ErrCapability{Addr: 5, Store: true})

	// The halted machine stays inspectable.
	assert.Equal(1, m.Cpu.PC())
	assert.NotEmpty(m.Cpu.String())
}

func TestMachineLoadWords(t *testing.T) {
	assert := assert.New(t)

	m := New(16)

	err := m.LoadWords([]int{0, 1, -1})
	assert.NoError(err)
	w, err := m.Cpu.Mem.Peek(2)
	assert.NoError(err)
	assert.Equal(-1, w.Int())

	err = m.LoadWords([]int{word.MaxInt + 1})
	assert.Error(err)
	var er word.ErrRange
	assert.ErrorAs(err, &er)
}

func TestMachineDisassemble(t *testing.T) {
	assert := assert.New(t)

	m := New(16)
	err := m.LoadAssembly(strings.NewReader("ADD r0 r1\nHLT\n"))
	assert.NoError(err)

	listing := m.Disassemble()
	assert.Contains(listing, "0: ADD r0 r1")
	assert.Contains(listing, "1: HLT")
}
