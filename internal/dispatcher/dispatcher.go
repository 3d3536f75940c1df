/*
 * ossim - Dispatcher: sole mutator of process state and device binding
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

// Package dispatcher is the sole component permitted to change a
// process's lifecycle state or to bind/unbind a device's current
// process, with one exception: an IO controller sets its bound
// process to IO_END itself to signal completion. It owns the CPU and IO device slices and performs the
// opportunistic idle-fill dispatch step.
package dispatcher

import (
	"github.com/corewall/ossim/config"
	"github.com/corewall/ossim/internal/cpudevice"
	"github.com/corewall/ossim/internal/ioctl"
	"github.com/corewall/ossim/internal/memmanager"
	"github.com/corewall/ossim/internal/process"
	"github.com/corewall/ossim/internal/scheduler"
	"github.com/corewall/ossim/internal/stats"
)

// Dispatcher binds the configured CPU and IO device pools to the
// process table and bills every state transition and load.
type Dispatcher struct {
	costs config.TimeCosts
	mem   *memmanager.Manager
	stats *stats.Statistics

	cpus []*cpudevice.CPU
	ios  []*ioctl.Controller
}

// New creates a dispatcher over the given device pools.
func New(costs config.TimeCosts, mem *memmanager.Manager, st *stats.Statistics, cpus []*cpudevice.CPU, ios []*ioctl.Controller) *Dispatcher {
	return &Dispatcher{costs: costs, mem: mem, stats: st, cpus: cpus, ios: ios}
}

// CPUDevices returns the CPU device pool in index order.
func (d *Dispatcher) CPUDevices() []*cpudevice.CPU { return d.cpus }

// IODevices returns the IO device pool in index order.
func (d *Dispatcher) IODevices() []*ioctl.Controller { return d.ios }

// ChangeState moves pid to newState, billing t_state + t_global to OS
// multi-time if and only if the state actually changes.
func (d *Dispatcher) ChangeState(pid int, newState process.State) {
	p, ok := d.mem.Process(pid)
	if !ok {
		return
	}
	if p.State == newState {
		return
	}
	p.State = newState
	d.stats.BillOSMulti(d.costs.TState + d.costs.TGlobal)
	d.stats.BillOSSysMulti(d.costs.TState + d.costs.TGlobal)
}

// LoadToCPU binds pid to the CPU at deviceID and moves it to RUNNING,
// billing the per-process load cost to t_sys_mono and the
// corresponding OS multi-time/sys-multi costs.
func (d *Dispatcher) LoadToCPU(deviceID, pid int) bool {
	p, ok := d.mem.Process(pid)
	if !ok || p.State == process.StateTerminated {
		return false
	}
	d.cpus[deviceID].Bind(p)
	d.ChangeState(pid, process.StateRunning)

	d.stats.Bill(pid, stats.SysMono, d.costs.TLoad)
	d.stats.BillOSMulti(d.costs.TLoad)
	d.stats.BillOSSysMulti(d.costs.TGlobal)
	return true
}

// LoadToIO binds pid to the IO controller at deviceID and moves it to
// IO_RUNNING.
func (d *Dispatcher) LoadToIO(deviceID, pid int) bool {
	p, ok := d.mem.Process(pid)
	if !ok || p.State == process.StateTerminated {
		return false
	}
	d.ios[deviceID].Bind(p)
	d.ChangeState(pid, process.StateIORunning)
	return true
}

// UnloadCPU clears the CPU at deviceID's binding, returning the PID
// that was bound, if any.
func (d *Dispatcher) UnloadCPU(deviceID int) (int, bool) {
	return d.cpus[deviceID].Unbind()
}

// UnloadIO clears the IO controller at deviceID's binding, returning
// the PID that was bound, if any.
func (d *Dispatcher) UnloadIO(deviceID int) (int, bool) {
	return d.ios[deviceID].Unbind()
}

// DispatchCPU loads the head of the CPU queue onto the CPU at
// deviceID if it is idle and the queue is nonempty.
func (d *Dispatcher) DispatchCPU(deviceID int, sched *scheduler.Scheduler) bool {
	if d.cpus[deviceID].State() != cpudevice.Idle {
		return false
	}
	pid, ok := sched.DequeueCPU()
	if !ok {
		return false
	}
	return d.LoadToCPU(deviceID, pid)
}

// DispatchIO loads the head of the IO queue onto the IO controller at
// deviceID if it is idle and the queue is nonempty.
func (d *Dispatcher) DispatchIO(deviceID int, sched *scheduler.Scheduler) bool {
	if d.ios[deviceID].State() != ioctl.Idle {
		return false
	}
	pid, ok := sched.DequeueIO()
	if !ok {
		return false
	}
	return d.LoadToIO(deviceID, pid)
}

// FindCPU returns the device ID of the CPU currently bound to pid, if
// any.
func (d *Dispatcher) FindCPU(pid int) (int, bool) {
	for _, c := range d.cpus {
		if p, ok := c.CurrentProcess(); ok && p.PID == pid {
			return c.DeviceID, true
		}
	}
	return 0, false
}

// FindIO returns the device ID of the IO controller currently bound to
// pid, if any.
func (d *Dispatcher) FindIO(pid int) (int, bool) {
	for _, io := range d.ios {
		if p, ok := io.CurrentProcess(); ok && p.PID == pid {
			return io.DeviceID, true
		}
	}
	return 0, false
}
