/*
 * ossim - Interrupt queue and transaction table
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

// Package interrupt holds the per-tick interrupt queue and the fixed
// transaction table that mediates every process-state transition.
// Devices and the external control surface only ever call Raise;
// Drain is called once per tick, after every device has executed.
package interrupt

import (
	"errors"
	"log/slog"

	"github.com/corewall/ossim/config"
	"github.com/corewall/ossim/internal/dispatcher"
	"github.com/corewall/ossim/internal/memmanager"
	"github.com/corewall/ossim/internal/process"
	"github.com/corewall/ossim/internal/scheduler"
	"github.com/corewall/ossim/internal/stats"
)

// Kind is one of the nine interrupt kinds the handler recognizes.
type Kind int

const (
	QuantumEnded Kind = iota
	ProcessTerminated
	ProcessIOInit
	ProcessIOEnd
	ProcessStoppedCPU
	ProcessStoppedIO
	ProcessResumedCPU
	ProcessResumedIO
	ProcessKilled
)

func (k Kind) String() string {
	switch k {
	case QuantumEnded:
		return "QUANTUM_ENDED"
	case ProcessTerminated:
		return "PROCESS_TERMINATED"
	case ProcessIOInit:
		return "PROCESS_IO_INIT"
	case ProcessIOEnd:
		return "PROCESS_IO_END"
	case ProcessStoppedCPU:
		return "PROCESS_STOPPED_CPU"
	case ProcessStoppedIO:
		return "PROCESS_STOPPED_IO"
	case ProcessResumedCPU:
		return "PROCESS_RESUMED_CPU"
	case ProcessResumedIO:
		return "PROCESS_RESUMED_IO"
	case ProcessKilled:
		return "PROCESS_KILLED"
	default:
		return "UNKNOWN"
	}
}

// Interrupt describes a requested state transition for pid, optionally
// naming the device that raised it.
type Interrupt struct {
	Kind     Kind
	PID      int
	DeviceID int
}

// ErrUnknownKind is a programmer error: an interrupt with a Kind
// outside the nine recognized values reached Drain.
var ErrUnknownKind = errors.New("interrupt: unknown kind")

// Handler owns the pending queue and the transaction table's
// collaborators: the dispatcher (binding/state), the scheduler
// (queues), the memory manager (deferred frees), and statistics
// (billing).
type Handler struct {
	costs  config.TimeCosts
	disp   *dispatcher.Dispatcher
	sched  *scheduler.Scheduler
	mem    *memmanager.Manager
	stats  *stats.Statistics
	log    *slog.Logger
	queue  []Interrupt
}

// New creates a handler wired to its collaborators.
func New(costs config.TimeCosts, disp *dispatcher.Dispatcher, sched *scheduler.Scheduler, mem *memmanager.Manager, st *stats.Statistics, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{costs: costs, disp: disp, sched: sched, mem: mem, stats: st, log: log}
}

// Raise appends an interrupt to the pending queue. Safe to call from
// any device or from the external control surface during the same
// tick.
func (h *Handler) Raise(i Interrupt) {
	h.queue = append(h.queue, i)
}

// CollectIOCompletions scans every IO controller for a bound process
// in IO_END state (the IO controller's per-tick signal) and raises the
// corresponding PROCESS_IO_END interrupt. Must run after device ticks
// and before Drain.
func (h *Handler) CollectIOCompletions() {
	for _, io := range h.disp.IODevices() {
		p, ok := io.CurrentProcess()
		if ok && p.State == process.StateIOEnd {
			h.Raise(Interrupt{Kind: ProcessIOEnd, PID: p.PID, DeviceID: io.DeviceID})
		}
	}
}

// Drain processes every queued interrupt in arrival order through the
// fixed transaction table, then clears the queue. Returns
// ErrUnknownKind, a fatal condition, if a queued interrupt's Kind is
// not one of the nine recognized values.
func (h *Handler) Drain() error {
	pending := h.queue
	h.queue = nil

	for _, i := range pending {
		if err := h.transact(i); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) transact(i Interrupt) error {
	h.log.Debug("interrupt", "kind", i.Kind, "pid", i.PID, "device", i.DeviceID)

	switch i.Kind {
	case QuantumEnded:
		h.disp.ChangeState(i.PID, process.StateReady)
		h.disp.UnloadCPU(i.DeviceID)
		h.sched.EnqueueCPU(i.PID)
		h.disp.DispatchCPU(i.DeviceID, h.sched)

	case ProcessTerminated:
		h.disp.ChangeState(i.PID, process.StateTerminated)
		h.disp.UnloadCPU(i.DeviceID)
		h.mem.ScheduleFree(i.PID)
		h.stats.IncCompleted()
		h.stats.MarkEnd(i.PID)
		h.disp.DispatchCPU(i.DeviceID, h.sched)

	case ProcessIOInit:
		h.stats.Bill(i.PID, stats.SysMono, h.costs.TInitIO)
		h.stats.BillOSMulti(h.costs.TInitIO)
		h.stats.BillOSSysMulti(h.costs.TInitIO)
		h.disp.ChangeState(i.PID, process.StateIOBlocked)
		h.disp.UnloadCPU(i.DeviceID)
		h.sched.EnqueueIO(i.PID)
		h.disp.DispatchCPU(i.DeviceID, h.sched)

	case ProcessIOEnd:
		h.stats.Bill(i.PID, stats.SysMono, h.costs.TEndIO)
		h.stats.BillOSMulti(h.costs.TEndIO)
		h.stats.BillOSSysMulti(h.costs.TEndIO)
		h.disp.ChangeState(i.PID, process.StateReady)
		h.disp.UnloadIO(i.DeviceID)
		h.sched.EnqueueCPU(i.PID)
		h.disp.DispatchIO(i.DeviceID, h.sched)

	case ProcessStoppedCPU:
		h.disp.ChangeState(i.PID, process.StateStoppedCPU)
		h.disp.UnloadCPU(i.DeviceID)
		h.disp.DispatchCPU(i.DeviceID, h.sched)

	case ProcessStoppedIO:
		h.stats.Bill(i.PID, stats.SysMono, h.costs.TEndIO)
		h.stats.BillOSMulti(h.costs.TEndIO)
		h.stats.BillOSSysMulti(h.costs.TEndIO)
		h.disp.ChangeState(i.PID, process.StateStoppedIO)
		h.disp.UnloadIO(i.DeviceID)
		h.disp.DispatchIO(i.DeviceID, h.sched)

	case ProcessResumedCPU:
		h.stats.Bill(i.PID, stats.SysMono, h.costs.TEndIO)
		h.stats.BillOSMulti(h.costs.TEndIO)
		h.stats.BillOSSysMulti(h.costs.TEndIO)
		h.disp.ChangeState(i.PID, process.StateReady)
		h.sched.EnqueueCPU(i.PID)

	case ProcessResumedIO:
		h.stats.Bill(i.PID, stats.SysMono, h.costs.TInitIO)
		h.stats.BillOSMulti(h.costs.TInitIO)
		h.stats.BillOSSysMulti(h.costs.TInitIO)
		h.disp.ChangeState(i.PID, process.StateIOBlocked)
		h.sched.EnqueueIO(i.PID)

	case ProcessKilled:
		if devID, ok := h.disp.FindCPU(i.PID); ok {
			h.disp.UnloadCPU(devID)
			h.disp.DispatchCPU(devID, h.sched)
		} else if devID, ok := h.disp.FindIO(i.PID); ok {
			h.disp.UnloadIO(devID)
			h.disp.DispatchIO(devID, h.sched)
		}
		h.disp.ChangeState(i.PID, process.StateTerminated)
		h.mem.ScheduleFree(i.PID)
		h.stats.IncCompleted()
		h.stats.MarkEnd(i.PID)

	default:
		return ErrUnknownKind
	}
	return nil
}
