package process

import (
	"testing"

	"github.com/corewall/ossim/internal/command"
	"github.com/corewall/ossim/internal/memory"
	"github.com/corewall/ossim/internal/random"
)

func newTestProcess(t *testing.T, totalCommands int, ioRatio float64) *Process {
	t.Helper()
	mem := memory.New(16)
	rng := random.New(1)
	memCfg := MemoryConfig{BlockStart: 0, BlockSize: 8, OperandsAddr: 0, ResultAddr: 2}
	cmdCfg := CommandsConfig{
		TotalCommands: totalCommands,
		IORatio:       ioRatio,
		IODurationMin: 1,
		IODurationMax: 5,
		OperandMin:    1,
		OperandMax:    10,
	}
	return New(1, mem, rng, memCfg, cmdCfg)
}

func TestGenerateCommandExitsWhenDone(t *testing.T) {
	p := newTestProcess(t, 0, 0.0)
	cmd, err := p.GenerateCommand()
	if err != nil {
		t.Fatalf("GenerateCommand: %v", err)
	}
	if cmd.Kind != command.KindExit {
		t.Errorf("GenerateCommand got kind: %v expected: KindExit", cmd.Kind)
	}
}

func TestGenerateCommandAllIO(t *testing.T) {
	p := newTestProcess(t, 5, 1.0)
	cmd, err := p.GenerateCommand()
	if err != nil {
		t.Fatalf("GenerateCommand: %v", err)
	}
	if cmd.Kind != command.KindIO {
		t.Errorf("GenerateCommand got kind: %v expected: KindIO", cmd.Kind)
	}
	if cmd.Duration < 1 || cmd.Duration > 5 {
		t.Errorf("IO duration got: %d expected in [1,5]", cmd.Duration)
	}
}

func TestGenerateCommandALUWritesOperands(t *testing.T) {
	p := newTestProcess(t, 5, 0.0)
	cmd, err := p.GenerateCommand()
	if err != nil {
		t.Fatalf("GenerateCommand: %v", err)
	}
	if cmd.Kind != command.KindALU {
		t.Fatalf("GenerateCommand got kind: %v expected: KindALU", cmd.Kind)
	}
	if cmd.Addr1 != p.Mem.OperandsAddr || cmd.Addr2 != p.Mem.OperandsAddr+1 {
		t.Errorf("ALU addrs got: %d,%d expected: %d,%d", cmd.Addr1, cmd.Addr2, p.Mem.OperandsAddr, p.Mem.OperandsAddr+1)
	}
	v1, _ := p.mem.Read(cmd.Addr1)
	v2, _ := p.mem.Read(cmd.Addr2)
	if v1 < 1 || v1 > 10 || v2 < 1 || v2 > 10 {
		t.Errorf("operands out of configured range got: %d,%d", v1, v2)
	}
}

func TestGenerateCommandALUOutOfRangeIsFatal(t *testing.T) {
	p := newTestProcess(t, 5, 0.0)
	p.Mem.OperandsAddr = 1000 // outside the 16-cell test memory
	if _, err := p.GenerateCommand(); err == nil {
		t.Error("expected an out-of-range error when operand addresses fall outside memory")
	}
}

func TestCurrentCommandTracksLast(t *testing.T) {
	p := newTestProcess(t, 5, 0.0)
	if _, ok := p.CurrentCommand(); ok {
		t.Errorf("CurrentCommand should report false before any command generated")
	}
	if _, err := p.GenerateCommand(); err != nil {
		t.Fatalf("GenerateCommand: %v", err)
	}
	if _, ok := p.CurrentCommand(); !ok {
		t.Errorf("CurrentCommand should report true after GenerateCommand")
	}
}

func TestStateString(t *testing.T) {
	if StateRunning.String() != "RUNNING" {
		t.Errorf("String got: %s expected: RUNNING", StateRunning.String())
	}
}
