package memmanager

import (
	"errors"
	"testing"

	"github.com/corewall/ossim/internal/memory"
	"github.com/corewall/ossim/internal/process"
)

func insertAndAllocate(t *testing.T, m *Manager, pid, size int) *process.Process {
	t.Helper()
	start, err := m.Allocate(pid, size)
	if err != nil {
		t.Fatalf("Allocate(%d,%d) failed: %v", pid, size, err)
	}
	p := &process.Process{PID: pid, Mem: process.MemoryConfig{BlockStart: start, BlockSize: size}}
	m.InsertProcess(p)
	return p
}

// S4 — allocator coalescing, spec.md §8.
func TestAllocateFreeCoalescing(t *testing.T) {
	mem := memory.New(30)
	m := New(mem)

	insertAndAllocate(t, m, 1, 10)
	insertAndAllocate(t, m, 2, 10)
	insertAndAllocate(t, m, 3, 10)

	if m.AvailableMemory() != 0 {
		t.Fatalf("AvailableMemory got: %d expected: 0", m.AvailableMemory())
	}

	if err := m.Free(2); err != nil {
		t.Fatalf("Free(2) failed: %v", err)
	}
	assertSingleFreeSegment(t, m, 10, 10)

	if err := m.Free(1); err != nil {
		t.Fatalf("Free(1) failed: %v", err)
	}
	assertSingleFreeSegment(t, m, 0, 20)

	if err := m.Free(3); err != nil {
		t.Fatalf("Free(3) failed: %v", err)
	}
	assertSingleFreeSegment(t, m, 0, 30)
}

func assertSingleFreeSegment(t *testing.T, m *Manager, wantStart, wantLength int) {
	t.Helper()
	var free []struct{ start, length int }
	for _, s := range m.Segments() {
		if s.Owner < 0 {
			free = append(free, struct{ start, length int }{s.Start, s.Length})
		}
	}
	found := false
	for _, f := range free {
		if f.start == wantStart && f.length == wantLength {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a free segment (%d,%d), got free segments: %+v", wantStart, wantLength, free)
	}
}

func TestFindFreeBlockFirstFit(t *testing.T) {
	mem := memory.New(30)
	m := New(mem)
	insertAndAllocate(t, m, 1, 5)
	_ = m.Free(1)
	start, length, ok := m.FindFreeBlock(5)
	if !ok || start != 0 || length != 30 {
		t.Errorf("FindFreeBlock got: (%d,%d,%v) expected: (0,30,true)", start, length, ok)
	}
}

func TestAllocateNoFit(t *testing.T) {
	mem := memory.New(8)
	m := New(mem)
	if _, err := m.Allocate(1, 16); !errors.Is(err, ErrNoFit) {
		t.Errorf("Allocate got: %v expected: ErrNoFit", err)
	}
}

// spec.md's memory-free rule: Free rewrites the released cells to
// empty so a later process allocated at the same addresses cannot
// observe the departed process's values.
func TestFreeClearsCells(t *testing.T) {
	mem := memory.New(16)
	m := New(mem)
	p := insertAndAllocate(t, m, 1, 4)
	for i := 0; i < p.Mem.BlockSize; i++ {
		if err := mem.Write(p.Mem.BlockStart+i, 42); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if err := m.Free(1); err != nil {
		t.Fatalf("Free(1) failed: %v", err)
	}

	for i := 0; i < p.Mem.BlockSize; i++ {
		v, err := mem.Read(p.Mem.BlockStart + i)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if v != 0 {
			t.Errorf("cell %d after Free got: %d expected: 0 (cleared)", p.Mem.BlockStart+i, v)
		}
	}
}

func TestFreeProcessMissing(t *testing.T) {
	mem := memory.New(8)
	m := New(mem)
	if err := m.Free(99); !errors.Is(err, ErrProcessMissing) {
		t.Errorf("Free got: %v expected: ErrProcessMissing", err)
	}
}

func TestScheduleAndDrainFrees(t *testing.T) {
	mem := memory.New(16)
	m := New(mem)
	insertAndAllocate(t, m, 1, 4)
	insertAndAllocate(t, m, 2, 4)

	m.ScheduleFree(1)
	m.ScheduleFree(2)
	freed := m.DrainFrees()

	if len(freed) != 2 {
		t.Fatalf("DrainFrees got: %d frees expected: 2", len(freed))
	}
	if m.ProcessCount() != 0 {
		t.Errorf("ProcessCount after drain got: %d expected: 0", m.ProcessCount())
	}
	if m.AvailableMemory() != 16 {
		t.Errorf("AvailableMemory after drain got: %d expected: 16", m.AvailableMemory())
	}
}

func TestReset(t *testing.T) {
	mem := memory.New(16)
	m := New(mem)
	insertAndAllocate(t, m, 1, 4)
	m.Reset()

	if m.ProcessCount() != 0 {
		t.Errorf("ProcessCount after Reset got: %d expected: 0", m.ProcessCount())
	}
	if m.AvailableMemory() != 16 {
		t.Errorf("AvailableMemory after Reset got: %d expected: 16", m.AvailableMemory())
	}
	segs := m.Segments()
	if len(segs) != 1 || segs[0].Start != 0 || segs[0].Length != 16 {
		t.Errorf("Segments after Reset got: %+v expected: single (0,16)", segs)
	}
}

// Memory-map invariant I1/I4: segments tile the address space with no
// gap/overlap and free lengths sum to AvailableMemory.
func TestSegmentsTileAddressSpace(t *testing.T) {
	mem := memory.New(30)
	m := New(mem)
	insertAndAllocate(t, m, 1, 7)
	insertAndAllocate(t, m, 2, 11)

	segs := m.Segments()
	total, freeSum := 0, 0
	for i, s := range segs {
		if s.Start != total {
			t.Errorf("segment %d start got: %d expected: %d (gap/overlap)", i, s.Start, total)
		}
		total += s.Length
		if s.Owner < 0 {
			freeSum += s.Length
		}
	}
	if total != mem.Size() {
		t.Errorf("segments total got: %d expected: %d", total, mem.Size())
	}
	if freeSum != m.AvailableMemory() {
		t.Errorf("free segment sum got: %d expected AvailableMemory: %d", freeSum, m.AvailableMemory())
	}
}
