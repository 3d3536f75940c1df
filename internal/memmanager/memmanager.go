/*
 * ossim - Memory manager and process table
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

// Package memmanager owns the process table and the first-fit
// contiguous memory allocator with boundary coalescing. Frees are
// deferred (scheduled during interrupt handling, applied at the end
// of the tick) so that mid-tick invariants over the process table
// hold for every other component.
package memmanager

import (
	"errors"
	"sort"

	"github.com/corewall/ossim/internal/memory"
	"github.com/corewall/ossim/internal/process"
)

var (
	ErrNoFit          = errors.New("memmanager: no free block large enough")
	ErrProcessMissing = errors.New("memmanager: process not live or map entry inconsistent")
)

// segment describes one contiguous partition of the address space.
// owner == -1 means free.
type segment struct {
	start, length int
	owner         int
}

const noOwner = -1

// Manager holds the process table and the memory segment map.
type Manager struct {
	mem       *memory.Memory
	procTable map[int]*process.Process

	// segments tiles [0, mem.Size()) in increasing start order, with
	// invariant I2: no two adjacent entries are both free.
	segments []segment

	available int

	pendingFrees []int
}

// New creates a manager over mem with a single free segment spanning
// the whole address space.
func New(mem *memory.Memory) *Manager {
	return &Manager{
		mem:       mem,
		procTable: make(map[int]*process.Process),
		segments:  []segment{{start: 0, length: mem.Size(), owner: noOwner}},
		available: mem.Size(),
	}
}

// AvailableMemory returns the total length of all free segments.
func (m *Manager) AvailableMemory() int {
	return m.available
}

// ProcessCount returns the number of live PCBs.
func (m *Manager) ProcessCount() int {
	return len(m.procTable)
}

// Process looks up a PCB by PID.
func (m *Manager) Process(pid int) (*process.Process, bool) {
	p, ok := m.procTable[pid]
	return p, ok
}

// Processes returns the live process table. The caller must not
// retain it past the current tick; only the dispatcher, the memory
// manager itself, and OSModel's spawn step mutate it.
func (m *Manager) Processes() map[int]*process.Process {
	return m.procTable
}

// InsertProcess adds a PCB to the table. Its lifetime begins here and
// ends when a scheduled free removes it.
func (m *Manager) InsertProcess(p *process.Process) {
	m.procTable[p.PID] = p
}

// FindFreeBlock performs a first-fit scan over the segment map in
// address order and returns the first free segment with length >= n.
func (m *Manager) FindFreeBlock(n int) (start, length int, ok bool) {
	for _, seg := range m.segments {
		if seg.owner == noOwner && seg.length >= n {
			return seg.start, seg.length, true
		}
	}
	return 0, 0, false
}

// Allocate finds a first-fit free block, splits it if there's
// leftover space, and returns the start address owned by pid.
// Returns ErrNoFit if no block is large enough.
func (m *Manager) Allocate(pid, n int) (int, error) {
	idx := -1
	var found segment
	for i, seg := range m.segments {
		if seg.owner == noOwner && seg.length >= n {
			idx, found = i, seg
			break
		}
	}
	if idx < 0 {
		return 0, ErrNoFit
	}

	owned := segment{start: found.start, length: n, owner: pid}
	replacement := []segment{owned}
	if leftover := found.length - n; leftover > 0 {
		replacement = append(replacement, segment{start: found.start + n, length: leftover, owner: noOwner})
	}

	m.segments = replaceAt(m.segments, idx, replacement)
	m.available -= n
	return found.start, nil
}

// Free releases pid's segment, coalescing with an immediate left
// and/or right free neighbour. It leaves pid in the process table;
// DrainFrees removes the entry after a successful Free. The freed cells are rewritten to empty before coalescing, per
// spec.md's memory-free rule, so a later process allocated into the
// same addresses never reads a stale value left by pid. Fails with
// ErrProcessMissing if pid is not live or its recorded block_start has
// no matching owned segment.
func (m *Manager) Free(pid int) error {
	p, ok := m.procTable[pid]
	if !ok {
		return ErrProcessMissing
	}

	idx := m.segmentIndexAt(p.Mem.BlockStart)
	if idx < 0 || m.segments[idx].owner != pid {
		return ErrProcessMissing
	}

	start := m.segments[idx].start
	length := m.segments[idx].length
	ownLength := length
	m.mem.ClearRange(start, ownLength)
	lo, hi := idx, idx

	if idx > 0 && m.segments[idx-1].owner == noOwner {
		start = m.segments[idx-1].start
		length += m.segments[idx-1].length
		lo = idx - 1
	}
	if idx+1 < len(m.segments) && m.segments[idx+1].owner == noOwner {
		length += m.segments[idx+1].length
		hi = idx + 1
	}

	merged := segment{start: start, length: length, owner: noOwner}
	m.segments = append(m.segments[:lo], append([]segment{merged}, m.segments[hi+1:]...)...)

	m.available += ownLength
	return nil
}

// segmentIndexAt returns the index of the segment whose start equals
// addr, or -1.
func (m *Manager) segmentIndexAt(addr int) int {
	i := sort.Search(len(m.segments), func(i int) bool { return m.segments[i].start >= addr })
	if i < len(m.segments) && m.segments[i].start == addr {
		return i
	}
	return -1
}

// replaceAt substitutes the segment at idx with the given segments,
// keeping the slice sorted.
func replaceAt(segs []segment, idx int, with []segment) []segment {
	out := make([]segment, 0, len(segs)+len(with)-1)
	out = append(out, segs[:idx]...)
	out = append(out, with...)
	out = append(out, segs[idx+1:]...)
	return out
}

// ScheduleFree queues pid to be freed at DrainFrees, keeping mid-tick
// process-table invariants stable for every other component.
func (m *Manager) ScheduleFree(pid int) {
	m.pendingFrees = append(m.pendingFrees, pid)
}

// DrainFrees frees memory and removes the process-table entry for
// every PID scheduled this tick, then clears the queue.
func (m *Manager) DrainFrees() []int {
	freed := make([]int, 0, len(m.pendingFrees))
	for _, pid := range m.pendingFrees {
		if err := m.Free(pid); err == nil {
			delete(m.procTable, pid)
			freed = append(freed, pid)
		}
	}
	m.pendingFrees = m.pendingFrees[:0]
	return freed
}

// Reset clears the process table, the pending-free queue, and
// restores the segment map to a single free segment spanning the
// whole address space. Used by OSModel.Terminate.
func (m *Manager) Reset() {
	m.procTable = make(map[int]*process.Process)
	m.pendingFrees = nil
	m.segments = []segment{{start: 0, length: m.mem.Size(), owner: noOwner}}
	m.available = m.mem.Size()
}

// Segments returns a snapshot of the memory map for display/testing:
// (start, length, owner_pid_or_negative_for_free) triples in address
// order.
func (m *Manager) Segments() []struct {
	Start, Length, Owner int
} {
	out := make([]struct{ Start, Length, Owner int }, len(m.segments))
	for i, s := range m.segments {
		out[i] = struct{ Start, Length, Owner int }{s.start, s.length, s.owner}
	}
	return out
}
