/*
 * ossim - Process control block
 *
 * Copyright 2026, ossim contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package process models the PCB: identity, lifecycle state, memory
// placement, and the synthetic instruction-stream generator.
//
// The PCB is stored exactly once, in the process table owned by the
// memory manager (see internal/memmanager); every other reference to
// one is a lookup by PID, never a second copy of the struct.
package process

import (
	"github.com/corewall/ossim/internal/alu"
	"github.com/corewall/ossim/internal/command"
	"github.com/corewall/ossim/internal/memory"
	"github.com/corewall/ossim/internal/random"
)

// State is one of the ten lifecycle states a process can occupy.
type State int

const (
	StateNew State = iota
	StateReady
	StateRunning
	StateTerminated
	StateIOInit
	StateIOEnd
	StateIOBlocked
	StateIORunning
	StateStoppedCPU
	StateStoppedIO
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateTerminated:
		return "TERMINATED"
	case StateIOInit:
		return "IO_INIT"
	case StateIOEnd:
		return "IO_END"
	case StateIOBlocked:
		return "IO_BLOCKED"
	case StateIORunning:
		return "IO_RUNNING"
	case StateStoppedCPU:
		return "STOPPED_CPU"
	case StateStoppedIO:
		return "STOPPED_IO"
	default:
		return "UNKNOWN"
	}
}

// MemoryConfig records where a process' block lives and where its
// operands/result are addressed within it.
type MemoryConfig struct {
	BlockStart   int
	BlockSize    int
	OperandsAddr int
	ResultAddr   int
}

// CommandsConfig parameterizes the synthetic instruction generator.
type CommandsConfig struct {
	TotalCommands int
	IORatio       float64
	IODurationMin int
	IODurationMax int
	OperandMin    int
	OperandMax    int
}

// aluOps is the fixed draw order spec.md §4.3 names: {ADD, SUB, MUL, DIV}.
var aluOps = [4]alu.Op{alu.ADD, alu.SUB, alu.MUL, alu.DIV}

// Process is the PCB.
type Process struct {
	PID   int
	State State

	Mem  MemoryConfig
	Cmds CommandsConfig

	TotalExecuted int // commands executed, ALU + IO (Exit is not counted)
	IOExecuted    int // IO commands executed

	Current    command.Command
	hasCurrent bool

	mem *memory.Memory
	rng *random.Source
}

// New creates a process bound to physical memory and the shared random
// source used for command generation. Its PID is assigned by the
// caller (OSModel owns the monotonic counter per spec.md §9); initial
// state is StateNew.
func New(pid int, mem *memory.Memory, rng *random.Source, memCfg MemoryConfig, cmdCfg CommandsConfig) *Process {
	return &Process{
		PID:   pid,
		State: StateNew,
		Mem:   memCfg,
		Cmds:  cmdCfg,
		mem:   mem,
		rng:   rng,
	}
}

// CurrentCommand returns the most recently generated command, if any.
func (p *Process) CurrentCommand() (command.Command, bool) {
	return p.Current, p.hasCurrent
}

// GenerateCommand produces the next command for this process,
// following spec.md §4.3:
//  1. total executed == total configured -> Exit
//  2. else draw p in [0,1); p < io_ratio -> IO(duration)
//  3. else pick an ALU op, draw two operands, write them to memory at
//     OperandsAddr/OperandsAddr+1, and return the ALU command.
//
// Fails with memory.ErrOutOfRange if the operand addresses fall
// outside physical memory; the caller must treat this as fatal for
// the run, per spec.md's memory-access error rule.
func (p *Process) GenerateCommand() (command.Command, error) {
	if p.TotalExecuted == p.Cmds.TotalCommands {
		cmd := command.Exit()
		p.Current, p.hasCurrent = cmd, true
		return cmd, nil
	}

	draw := p.rng.FloatRange(0.0, 1.0)
	if draw < p.Cmds.IORatio {
		duration := p.rng.IntRange(p.Cmds.IODurationMin, p.Cmds.IODurationMax)
		cmd := command.IO(duration)
		p.Current, p.hasCurrent = cmd, true
		return cmd, nil
	}

	op := aluOps[p.rng.IntRange(0, len(aluOps)-1)]
	op1 := p.rng.IntRange(p.Cmds.OperandMin, p.Cmds.OperandMax)
	op2 := p.rng.IntRange(p.Cmds.OperandMin, p.Cmds.OperandMax)

	addr1 := p.Mem.OperandsAddr
	addr2 := p.Mem.OperandsAddr + 1
	if err := p.mem.Write(addr1, op1); err != nil {
		return command.Command{}, err
	}
	if err := p.mem.Write(addr2, op2); err != nil {
		return command.Command{}, err
	}

	cmd := command.ALU(addr1, addr2, op)
	p.Current, p.hasCurrent = cmd, true
	return cmd, nil
}
