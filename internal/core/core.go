/*
 * ossim - OSModel: the single-threaded tick loop
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

// Package core wires every other engine package together into
// OSModel, the single-threaded cooperative tick loop. One call to
// PerformTick is an atomic quantum of simulated time: spawn, accrue,
// execute every device, drain interrupts, opportunistically rebind
// idle devices, apply deferred frees, recompute statistics. No state
// mutation straddles two calls, so no locking is required here; a
// caller driving ticks from a timer must never hold one across a
// call.
package core

import (
	"errors"
	"log/slog"

	"github.com/corewall/ossim/config"
	"github.com/corewall/ossim/internal/cpudevice"
	"github.com/corewall/ossim/internal/dispatcher"
	"github.com/corewall/ossim/internal/interrupt"
	"github.com/corewall/ossim/internal/ioctl"
	"github.com/corewall/ossim/internal/memmanager"
	"github.com/corewall/ossim/internal/memory"
	"github.com/corewall/ossim/internal/process"
	"github.com/corewall/ossim/internal/random"
	"github.com/corewall/ossim/internal/scheduler"
	"github.com/corewall/ossim/internal/stats"
)

var (
	// ErrTableFull means the process table is already at its
	// configured capacity.
	ErrTableFull = errors.New("core: process table full")
	// ErrNotEnoughMemory means no free block is large enough for the
	// requested allocation.
	ErrNotEnoughMemory = errors.New("core: not enough memory")
)

// SpeedDirection names a relative speed-control nudge from the
// external control surface.
type SpeedDirection int

const (
	SpeedUp SpeedDirection = iota
	SpeedDown
)

// OSModel is the complete simulator: configuration, physical memory,
// the process table, every device, and the components that mediate
// between them.
type OSModel struct {
	cfg     config.OSConfig
	log     *slog.Logger
	rng     *random.Source
	phys    *memory.Memory
	mem     *memmanager.Manager
	stats   *stats.Statistics
	sched   *scheduler.Scheduler
	disp    *dispatcher.Dispatcher
	handler *interrupt.Handler

	cpus []*cpudevice.CPU
	ios  []*ioctl.Controller

	nextPID        int
	running        bool
	speed          float64
	loadingEnabled bool
	killOnFinish   bool
}

// New constructs an OSModel from cfg, wiring every component in the
// same dependency order the tick loop needs them.
func New(cfg config.OSConfig, log *slog.Logger) *OSModel {
	if log == nil {
		log = slog.Default()
	}

	phys := memory.New(cfg.Memory.TotalMemory)
	mem := memmanager.New(phys)
	st := stats.New()
	sched := scheduler.New(cfg.TimeCosts, st)

	cpus := make([]*cpudevice.CPU, cfg.CPU.CPUsNum)
	for i := range cpus {
		cpus[i] = cpudevice.New(i, cfg.CPU.QuantumSize, phys, log)
	}
	ios := make([]*ioctl.Controller, cfg.IO.IOsNum)
	for i := range ios {
		ios[i] = ioctl.New(i)
	}

	disp := dispatcher.New(cfg.TimeCosts, mem, st, cpus, ios)
	handler := interrupt.New(cfg.TimeCosts, disp, sched, mem, st, log)

	return &OSModel{
		cfg:            cfg,
		log:            log,
		rng:            random.New(cfg.Random.RandomSeed),
		phys:           phys,
		mem:            mem,
		stats:          st,
		sched:          sched,
		disp:           disp,
		handler:        handler,
		cpus:           cpus,
		ios:            ios,
		running:        true,
		speed:          cfg.Speed.Speed,
		loadingEnabled: true,
	}
}

// Running reports whether the engine is still willing to perform
// ticks.
func (m *OSModel) Running() bool { return m.running }

// Speed returns the current real-time throttle value.
func (m *OSModel) Speed() float64 { return m.speed }

// Stats returns the statistics accumulator for read-only inspection.
func (m *OSModel) Stats() *stats.Statistics { return m.stats }

// Memory returns the memory manager for read-only inspection (segment
// map, process table).
func (m *OSModel) Memory() *memmanager.Manager { return m.mem }

// Scheduler returns the scheduler for read-only queue-length
// inspection.
func (m *OSModel) Scheduler() *scheduler.Scheduler { return m.sched }

// CPUs returns the CPU device pool in index order, for read-only
// inspection.
func (m *OSModel) CPUs() []*cpudevice.CPU { return m.cpus }

// IOs returns the IO device pool in index order, for read-only
// inspection.
func (m *OSModel) IOs() []*ioctl.Controller { return m.ios }

// LoadNewTask admits a new process of blockSize words with the given
// command-generation parameters, returning its PID. Fails with
// ErrTableFull or ErrNotEnoughMemory; both are recoverable — the
// engine keeps running.
func (m *OSModel) LoadNewTask(blockSize int, cmdCfg process.CommandsConfig) (int, error) {
	if m.mem.ProcessCount() >= m.cfg.Memory.ProcTableSize {
		return 0, ErrTableFull
	}
	if _, _, ok := m.mem.FindFreeBlock(blockSize); !ok {
		return 0, ErrNotEnoughMemory
	}
	return m.admit(blockSize, cmdCfg), nil
}

// admit performs the common tail of spawning a process once a fit has
// already been confirmed: insert, enqueue, mark_start, allocate, and
// fix up its absolute operand/result addresses.
func (m *OSModel) admit(blockSize int, cmdCfg process.CommandsConfig) int {
	pid := m.nextPID
	m.nextPID++

	p := process.New(pid, m.phys, m.rng, process.MemoryConfig{BlockSize: blockSize}, cmdCfg)
	m.mem.InsertProcess(p)
	m.sched.EnqueueCPU(pid)
	m.stats.MarkStart(pid)
	m.stats.IncTasksLoaded()

	start, err := m.mem.Allocate(pid, blockSize)
	if err != nil {
		// FindFreeBlock already confirmed a fit for this size; a
		// failure here means the caller raced the allocator, which
		// cannot happen inside the single-threaded tick loop.
		m.log.Error("allocate failed after confirmed fit", "pid", pid, "error", err)
		return pid
	}
	p.Mem.BlockStart = start
	p.Mem.ResultAddr = start + m.cfg.CommandGeneration.ResultBlockShift
	p.Mem.OperandsAddr = start + m.cfg.CommandGeneration.OperandsBlockShift
	return pid
}

// fillProcessesIfPossible spawns randomized processes while the table
// has room and a block of a freshly drawn size still fits; it stops
// the moment either condition fails.
func (m *OSModel) fillProcessesIfPossible() {
	if !m.loadingEnabled {
		return
	}
	for m.mem.ProcessCount() < m.cfg.Memory.ProcTableSize {
		if _, ok := m.GenerateNewTask(); !ok {
			return
		}
	}
}

// GenerateNewTask draws a randomized process per the configured
// generation ranges and admits it, regardless of whether automatic
// loading is currently enabled. Returns false if no free block fits
// the drawn size or the process table is already full.
func (m *OSModel) GenerateNewTask() (int, bool) {
	if m.mem.ProcessCount() >= m.cfg.Memory.ProcTableSize {
		return 0, false
	}
	gen := m.cfg.ProcessGeneration
	blockSize := m.rng.IntRange(gen.MinMemory, gen.MaxMemory)
	if _, _, ok := m.mem.FindFreeBlock(blockSize); !ok {
		return 0, false
	}
	cmdCfg := process.CommandsConfig{
		TotalCommands: m.rng.IntRange(gen.TotalCommandsMin, gen.TotalCommandsMax),
		IORatio:       m.rng.FloatRange(gen.IOPercentageMin, gen.IOPercentageMax),
		IODurationMin: gen.IOCommandDurationMin,
		IODurationMax: gen.IOCommandDurationMax,
		OperandMin:    m.cfg.CommandGeneration.OperandMin,
		OperandMax:    m.cfg.CommandGeneration.OperandMax,
	}
	return m.admit(blockSize, cmdCfg), true
}

// RaiseInterrupt queues i for the next Drain. Equivalent in every
// respect to a device-issued interrupt; used for user-issued
// stop/resume/kill requests.
func (m *OSModel) RaiseInterrupt(i interrupt.Interrupt) {
	m.handler.Raise(i)
}

// PerformTick runs one atomic quantum of simulated time. A no-op once
// Terminate has been called. Returns a fatal error (an out-of-range
// memory access during command generation/execution, or an unknown
// interrupt kind) if one occurred; the caller should stop driving
// ticks in that case, since PerformTick has already set running to
// false.
func (m *OSModel) PerformTick() error {
	if !m.running {
		return nil
	}

	m.fillProcessesIfPossible()

	m.stats.TickAccrue(m.mem.Processes())
	m.stats.BillOSMulti(1)

	for _, c := range m.cpus {
		if err := c.ExecuteTick(m.handler); err != nil {
			m.running = false
			m.log.Error("fatal memory access", "device", c.DeviceID, "error", err)
			return err
		}
	}
	for _, io := range m.ios {
		io.ExecuteTick()
	}

	m.handler.CollectIOCompletions()
	if err := m.handler.Drain(); err != nil {
		m.running = false
		m.log.Error("fatal interrupt", "error", err)
		return err
	}

	for _, c := range m.cpus {
		m.disp.DispatchCPU(c.DeviceID, m.sched)
	}
	for _, io := range m.ios {
		m.disp.DispatchIO(io.DeviceID, m.sched)
	}

	m.mem.DrainFrees()
	m.stats.Recompute()

	if m.killOnFinish && m.mem.ProcessCount() == 0 {
		m.Terminate()
	}
	return nil
}

// LoadingEnabled reports whether the tick loop is still allowed to
// spawn randomized processes.
func (m *OSModel) LoadingEnabled() bool { return m.loadingEnabled }

// SetLoadingEnabled toggles automatic process generation without
// otherwise touching the tick loop; processes already in the table
// keep running.
func (m *OSModel) SetLoadingEnabled(enabled bool) { m.loadingEnabled = enabled }

// FinishKill stops automatic loading and arms a one-shot shutdown: the
// engine terminates itself the moment the process table next drains to
// empty.
func (m *OSModel) FinishKill() {
	m.loadingEnabled = false
	m.killOnFinish = true
}

// SetRandomSeed reseeds the shared random source; only future process
// and command generation is affected.
func (m *OSModel) SetRandomSeed(seed int64) {
	m.rng.Reseed(seed)
	m.cfg.Random.RandomSeed = seed
}

// StopTask raises PROCESS_STOPPED_CPU or PROCESS_STOPPED_IO for pid,
// depending on which device currently holds it. Returns false if pid
// is unknown or not currently running on a device.
func (m *OSModel) StopTask(pid int) bool {
	p, ok := m.mem.Process(pid)
	if !ok {
		return false
	}
	if devID, ok := m.disp.FindCPU(pid); ok && p.State == process.StateRunning {
		m.handler.Raise(interrupt.Interrupt{Kind: interrupt.ProcessStoppedCPU, PID: pid, DeviceID: devID})
		return true
	}
	if devID, ok := m.disp.FindIO(pid); ok && p.State == process.StateIORunning {
		m.handler.Raise(interrupt.Interrupt{Kind: interrupt.ProcessStoppedIO, PID: pid, DeviceID: devID})
		return true
	}
	return false
}

// ResumeTask raises PROCESS_RESUMED_CPU or PROCESS_RESUMED_IO for a
// previously stopped pid. Returns false if pid is unknown or was not
// stopped.
func (m *OSModel) ResumeTask(pid int) bool {
	p, ok := m.mem.Process(pid)
	if !ok {
		return false
	}
	switch p.State {
	case process.StateStoppedCPU:
		m.handler.Raise(interrupt.Interrupt{Kind: interrupt.ProcessResumedCPU, PID: pid})
		return true
	case process.StateStoppedIO:
		m.handler.Raise(interrupt.Interrupt{Kind: interrupt.ProcessResumedIO, PID: pid})
		return true
	default:
		return false
	}
}

// KillTask raises PROCESS_KILLED for pid. Returns false if pid is
// unknown.
func (m *OSModel) KillTask(pid int) bool {
	if _, ok := m.mem.Process(pid); !ok {
		return false
	}
	m.handler.Raise(interrupt.Interrupt{Kind: interrupt.ProcessKilled, PID: pid})
	return true
}

// Process returns pid's process table entry for read-only inspection.
func (m *OSModel) Process(pid int) (*process.Process, bool) {
	return m.mem.Process(pid)
}

// ChangeSpeed nudges the real-time throttle by one
// speed_multiplier step, clamped to [min_speed, max_speed]. It never
// touches the tick loop itself.
func (m *OSModel) ChangeSpeed(dir SpeedDirection) {
	step := m.cfg.Speed.SpeedMultiplier
	if dir == SpeedDown {
		step = -step
	}
	m.SetSpeed(m.speed + step)
}

// SetSpeed clamps and sets the real-time throttle directly.
func (m *OSModel) SetSpeed(v float64) {
	if v < m.cfg.Speed.MinSpeed {
		v = m.cfg.Speed.MinSpeed
	}
	if v > m.cfg.Speed.MaxSpeed {
		v = m.cfg.Speed.MaxSpeed
	}
	m.speed = v
}

// Terminate is an idempotent shutdown: it clears the process table,
// both scheduler queues, every device binding, and all statistics,
// wipes every memory cell, then resets the memory map to a single free
// segment spanning the whole address space.
func (m *OSModel) Terminate() {
	for _, c := range m.cpus {
		c.Unbind()
	}
	for _, io := range m.ios {
		io.Unbind()
	}
	m.sched.Reset()
	m.phys.Clear()
	m.mem.Reset()
	m.stats.Reset()
	m.running = false
}
