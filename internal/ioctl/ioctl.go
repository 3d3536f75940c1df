/*
 * ossim - IO controller device
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

// Package ioctl models one IO controller: binding to at most one
// process and counting down the duration of its current IO command.
// Completion is signal-only — the controller flips the bound
// process's state to IO_END; the interrupt handler is the one that
// turns that signal into a PROCESS_IO_END interrupt, on the tick
// following completion.
package ioctl

import (
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

// Controller is one IO controller device.
type Controller struct {
	DeviceID int

	state                State
	current              *process.Process
	CurrentTicksExecuted int
	TotalTicksExecuted   int
}

// New creates an idle IO controller.
func New(deviceID int) *Controller {
	return &Controller{DeviceID: deviceID}
}

// State returns IDLE or RUNNING.
func (c *Controller) State() State { return c.state }

// CurrentProcess returns the bound process, if any.
func (c *Controller) CurrentProcess() (*process.Process, bool) {
	return c.current, c.current != nil
}

// Bind sets the bound process and puts the controller in RUNNING
// state.
func (c *Controller) Bind(p *process.Process) {
	c.current = p
	c.state = Running
}

// Unbind clears the bound process, resets the per-command tick
// counter, and returns to IDLE. Returns the PID that was bound, if
// any.
func (c *Controller) Unbind() (int, bool) {
	if c.current == nil {
		return 0, false
	}
	pid := c.current.PID
	c.current = nil
	c.state = Idle
	c.CurrentTicksExecuted = 0
	return pid, true
}

// ExecuteTick runs one tick of the bound process's current IO
// command. When the configured duration is reached, it signals
// completion by setting the process to IO_END instead of incrementing
// further; otherwise it advances both tick counters.
func (c *Controller) ExecuteTick() {
	if c.current == nil {
		return
	}
	cmd, ok := c.current.CurrentCommand()
	if !ok {
		return
	}
	if c.CurrentTicksExecuted == cmd.Duration {
		c.current.State = process.StateIOEnd
		return
	}
	c.CurrentTicksExecuted++
	c.TotalTicksExecuted++
}
