/*
 * ossim - CPU device
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

// Package cpudevice models one CPU: binding to at most one process,
// quantum tracking, and the per-tick instruction-execution state
// machine. A CPU never mutates process state or its own binding
// directly outside the setter contract in Bind/Unbind — that remains
// the dispatcher's job.
package cpudevice

import (
	"log/slog"

	"github.com/corewall/ossim/internal/alu"
	"github.com/corewall/ossim/internal/command"
	"github.com/corewall/ossim/internal/interrupt"
	"github.com/corewall/ossim/internal/memory"
	"github.com/corewall/ossim/internal/process"
)

// State is IDLE or RUNNING, fully determined by whether a process is
// bound.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "RUNNING"
	}
	return "IDLE"
}

// CPU is one CPU device.
type CPU struct {
	DeviceID    int
	QuantumSize int

	state                 State
	current               *process.Process
	TicksExecuted         int
	TotalCommandsExecuted int

	mem *memory.Memory
	log *slog.Logger
}

// New creates an idle CPU bound to mem for operand/result access.
func New(deviceID, quantumSize int, mem *memory.Memory, log *slog.Logger) *CPU {
	if log == nil {
		log = slog.Default()
	}
	return &CPU{DeviceID: deviceID, QuantumSize: quantumSize, mem: mem, log: log}
}

// State returns IDLE or RUNNING.
func (c *CPU) State() State { return c.state }

// CurrentProcess returns the bound process, if any.
func (c *CPU) CurrentProcess() (*process.Process, bool) {
	return c.current, c.current != nil
}

// Bind sets the bound process and puts the CPU in RUNNING state.
func (c *CPU) Bind(p *process.Process) {
	c.current = p
	c.state = Running
}

// Unbind clears the bound process, resets the per-quantum tick
// counter, and returns to IDLE. Returns the PID that was bound, if
// any.
func (c *CPU) Unbind() (int, bool) {
	if c.current == nil {
		return 0, false
	}
	pid := c.current.PID
	c.current = nil
	c.state = Idle
	c.TicksExecuted = 0
	return pid, true
}

// ExecuteTick runs one tick of the bound process, if any and not
// TERMINATED. At the quantum boundary it raises QUANTUM_ENDED instead
// of generating a command. Otherwise it asks the process for its next
// command and dispatches on kind.
//
// Fails with memory.ErrOutOfRange if the command's operand or result
// addresses fall outside physical memory; the caller must treat this
// as fatal for the run, per spec.md's memory-access error rule.
func (c *CPU) ExecuteTick(h *interrupt.Handler) error {
	if c.current == nil || c.current.State == process.StateTerminated {
		return nil
	}

	pid := c.current.PID
	c.TotalCommandsExecuted++
	c.TicksExecuted++

	if c.TicksExecuted == c.QuantumSize {
		h.Raise(interrupt.Interrupt{Kind: interrupt.QuantumEnded, PID: pid, DeviceID: c.DeviceID})
		return nil
	}

	cmd, err := c.current.GenerateCommand()
	if err != nil {
		return err
	}
	switch cmd.Kind {
	case command.KindALU:
		op1, err := c.mem.Read(cmd.Addr1)
		if err != nil {
			return err
		}
		op2, err := c.mem.Read(cmd.Addr2)
		if err != nil {
			return err
		}
		result := alu.Execute(cmd.Op, op1, op2)
		if err := c.mem.Write(c.current.Mem.ResultAddr, result); err != nil {
			return err
		}
		c.current.TotalExecuted++
		c.log.Debug("cpu alu", "device", c.DeviceID, "pid", pid, "op", cmd.Op, "result", result)

	case command.KindExit:
		h.Raise(interrupt.Interrupt{Kind: interrupt.ProcessTerminated, PID: pid, DeviceID: c.DeviceID})

	case command.KindIO:
		c.current.TotalExecuted++
		c.current.IOExecuted++
		h.Raise(interrupt.Interrupt{Kind: interrupt.ProcessIOInit, PID: pid, DeviceID: c.DeviceID})
	}
	return nil
}
