/*
 * ossim - Per-process and system-wide timing statistics
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

// Package stats accumulates per-process and system-wide timing
// statistics and recomputes the derived metrics that compare
// multiprogrammed throughput against a hypothetical uniprogrammed
// baseline.
package stats

import "github.com/corewall/ossim/internal/process"

// Category names one of the four per-process billing buckets.
type Category int

const (
	Active Category = iota
	Passive
	SysMono
	SysMulti
)

// ProcessTimeStats accrues the timing history of a single process.
type ProcessTimeStats struct {
	TActive   float64
	TPassive  float64
	TSysMono  float64
	TSysMulti float64
	TStart    float64
	TEnd      float64
	TMono     float64
	TMulti    float64
	DExe      float64
	DReady    float64
}

// OSStats is the system-wide output statistics container.
type OSStats struct {
	TasksLoaded   int
	DSystem       float64
	TMulti        float64
	TSysMulti     float64
	MMulti        float64
	TProcAvgMulti float64
	TProcAvgMono  float64
	TMono         float64
	MMono         float64
	DMulti        float64
}

// AvgProcessTimeStats is the per-run average over completed processes.
type AvgProcessTimeStats struct {
	TMonoAvg  float64
	TMultiAvg float64
	DExeAvg   float64
	DReadyAvg float64
}

// Statistics owns the per-process table and the two system-wide
// aggregate containers.
type Statistics struct {
	process map[int]*ProcessTimeStats
	os      OSStats
	avg     AvgProcessTimeStats
}

// New creates an empty statistics accumulator.
func New() *Statistics {
	return &Statistics{process: make(map[int]*ProcessTimeStats)}
}

// entry returns (creating if needed) the stats record for pid.
func (s *Statistics) entry(pid int) *ProcessTimeStats {
	e, ok := s.process[pid]
	if !ok {
		e = &ProcessTimeStats{}
		s.process[pid] = e
	}
	return e
}

// Process returns the stats record for pid, if one has been started.
func (s *Statistics) Process(pid int) (ProcessTimeStats, bool) {
	e, ok := s.process[pid]
	if !ok {
		return ProcessTimeStats{}, false
	}
	return *e, true
}

// OS returns a snapshot of the system-wide stats.
func (s *Statistics) OS() OSStats { return s.os }

// Avg returns a snapshot of the per-run process averages.
func (s *Statistics) Avg() AvgProcessTimeStats { return s.avg }

// TickAccrue adds one tick of active or passive time to every process
// according to its current lifecycle state; processes in any other
// state are left untouched.
func (s *Statistics) TickAccrue(procTable map[int]*process.Process) {
	for pid, p := range procTable {
		switch p.State {
		case process.StateRunning, process.StateIORunning:
			s.entry(pid).TActive++
		case process.StateReady, process.StateIOBlocked:
			s.entry(pid).TPassive++
		}
	}
}

// MarkStart records a process' admission time as the current system
// multiprogrammed clock.
func (s *Statistics) MarkStart(pid int) {
	s.entry(pid).TStart = s.os.TMulti
}

// MarkEnd records a process' completion time and derives its final
// per-process metrics from the billing ledger accrued over its
// lifetime.
func (s *Statistics) MarkEnd(pid int) {
	e := s.entry(pid)
	e.TEnd = s.os.TMulti
	e.TMulti = e.TEnd - e.TStart
	e.TSysMulti = e.TMulti - e.TActive - e.TPassive
	e.TMono = e.TActive + e.TSysMono
	e.DExe = safeDiv(e.TMulti, e.TMono) * 100
	e.DReady = safeDiv(e.TPassive, e.TMulti) * 100
}

// Bill adds v to pid's Active, Passive, SysMono, or SysMulti bucket.
func (s *Statistics) Bill(pid int, category Category, v float64) {
	e := s.entry(pid)
	switch category {
	case Active:
		e.TActive += v
	case Passive:
		e.TPassive += v
	case SysMono:
		e.TSysMono += v
	case SysMulti:
		e.TSysMulti += v
	}
}

// BillOSMulti adds v to the system's multiprogrammed run time.
func (s *Statistics) BillOSMulti(v float64) {
	s.os.TMulti += v
}

// BillOSSysMulti adds v to the system's multiprogrammed overhead time.
func (s *Statistics) BillOSSysMulti(v float64) {
	s.os.TSysMulti += v
}

// IncTasksLoaded counts one more admitted process, for display.
func (s *Statistics) IncTasksLoaded() {
	s.os.TasksLoaded++
}

// IncCompleted counts one more terminated process toward the
// multiprogrammed completion count m_multi.
func (s *Statistics) IncCompleted() {
	s.os.MMulti++
}

// safeDiv returns 0 instead of a NaN/Inf quotient when the
// denominator is zero; every derived ratio in the billing model is
// guarded this way.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Recompute derives every end-of-tick system and average metric from
// the completed processes recorded so far. Every division is guarded
// against a zero denominator.
func (s *Statistics) Recompute() {
	var sumMulti, sumMono float64
	var nMulti, nMono int
	var sumDExe, sumDReady float64
	var nDExe, nDReady int

	for _, e := range s.process {
		if e.TEnd == 0 {
			continue
		}
		sumMulti += e.TMulti
		nMulti++
		sumMono += e.TMono
		nMono++
		sumDExe += e.DExe
		nDExe++
		sumDReady += e.DReady
		nDReady++
	}

	if nMulti > 0 {
		s.os.TProcAvgMulti = sumMulti / float64(nMulti)
	}
	if nMono > 0 {
		s.os.TProcAvgMono = sumMono / float64(nMono)
		s.os.TMono = sumMono
	}
	s.os.MMono = safeDiv(s.os.TMulti, s.os.TProcAvgMono)
	s.os.DMulti = safeDiv(s.os.MMulti, s.os.MMono) * 100
	s.os.DSystem = safeDiv(s.os.TSysMulti, s.os.TMulti) * 100

	if nDExe > 0 {
		s.avg.TMonoAvg = sumMono / float64(nMono)
		s.avg.TMultiAvg = sumMulti / float64(nMulti)
		s.avg.DExeAvg = sumDExe / float64(nDExe)
	}
	if nDReady > 0 {
		s.avg.DReadyAvg = sumDReady / float64(nDReady)
	}
}

// Reset clears every accumulated record. Used by OSModel.Terminate.
func (s *Statistics) Reset() {
	s.process = make(map[int]*ProcessTimeStats)
	s.os = OSStats{}
	s.avg = AvgProcessTimeStats{}
}
