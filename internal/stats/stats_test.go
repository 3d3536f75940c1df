package stats

import (
	"testing"

	"github.com/corewall/ossim/internal/process"
)

func TestTickAccrue(t *testing.T) {
	s := New()
	procs := map[int]*process.Process{
		1: {PID: 1, State: process.StateRunning},
		2: {PID: 2, State: process.StateReady},
		3: {PID: 3, State: process.StateIOBlocked},
		4: {PID: 4, State: process.StateIORunning},
		5: {PID: 5, State: process.StateStoppedCPU},
	}
	s.TickAccrue(procs)

	cases := []struct {
		pid             int
		active, passive float64
	}{
		{1, 1, 0},
		{2, 0, 1},
		{3, 0, 1},
		{4, 1, 0},
	}
	for _, c := range cases {
		e, ok := s.Process(c.pid)
		if !ok {
			t.Fatalf("pid %d: no stats entry created", c.pid)
		}
		if e.TActive != c.active || e.TPassive != c.passive {
			t.Errorf("pid %d got: active=%v passive=%v expected: active=%v passive=%v", c.pid, e.TActive, e.TPassive, c.active, c.passive)
		}
	}
	if _, ok := s.Process(5); ok {
		t.Errorf("pid 5 (STOPPED_CPU) should not accrue any stats entry")
	}
}

// S6 — statistics identity, spec.md §8.
func TestMarkStartEndIdentity(t *testing.T) {
	s := New()
	s.MarkStart(1)
	s.BillOSMulti(1)
	s.Bill(1, Active, 3)
	s.Bill(1, Passive, 2)
	s.BillOSMulti(4)
	s.Bill(1, SysMono, 1)

	s.MarkEnd(1)
	e, _ := s.Process(1)

	if e.TMulti != e.TEnd-e.TStart {
		t.Errorf("t_multi identity got: %v expected: %v", e.TMulti, e.TEnd-e.TStart)
	}
	if e.TMulti != e.TActive+e.TPassive+e.TSysMulti {
		t.Errorf("t_multi != t_active+t_passive+t_sys_multi: %v != %v+%v+%v", e.TMulti, e.TActive, e.TPassive, e.TSysMulti)
	}
}

func TestRecomputeGuardsZeroDivision(t *testing.T) {
	s := New()
	s.Recompute() // no completed processes; must not panic, all derived metrics stay zero
	os := s.OS()
	if os.MMono != 0 || os.DMulti != 0 || os.DSystem != 0 {
		t.Errorf("Recompute with no completions got non-zero derived metrics: %+v", os)
	}
	avg := s.Avg()
	if avg.TMonoAvg != 0 || avg.DExeAvg != 0 {
		t.Errorf("Avg with no completions got non-zero metrics: %+v", avg)
	}
}

func TestRecomputeAveragesCompletedProcesses(t *testing.T) {
	s := New()

	s.MarkStart(1)
	s.BillOSMulti(10)
	s.Bill(1, Active, 8)
	s.Bill(1, Passive, 2)
	s.MarkEnd(1)

	s.MarkStart(2)
	s.BillOSMulti(10)
	s.Bill(2, Active, 4)
	s.Bill(2, Passive, 16)
	s.MarkEnd(2)

	s.Recompute()
	os := s.OS()
	if os.TProcAvgMulti <= 0 {
		t.Errorf("TProcAvgMulti got: %v expected: > 0", os.TProcAvgMulti)
	}
	avg := s.Avg()
	if avg.TMultiAvg <= 0 {
		t.Errorf("TMultiAvg got: %v expected: > 0", avg.TMultiAvg)
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.MarkStart(1)
	s.IncTasksLoaded()
	s.Reset()

	if _, ok := s.Process(1); ok {
		t.Errorf("Process(1) should not exist after Reset")
	}
	if s.OS().TasksLoaded != 0 {
		t.Errorf("TasksLoaded after Reset got: %d expected: 0", s.OS().TasksLoaded)
	}
}
