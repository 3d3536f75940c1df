package core

import (
	"errors"
	"testing"

	"github.com/corewall/ossim/config"
	"github.com/corewall/ossim/internal/process"
)

func smallConfig() config.OSConfig {
	cfg := config.Default()
	cfg.Memory.TotalMemory = 64
	cfg.Memory.ProcTableSize = 4
	cfg.CPU.CPUsNum = 2
	cfg.CPU.QuantumSize = 3
	cfg.IO.IOsNum = 1
	cfg.Random.RandomSeed = 1
	cfg.ProcessGeneration.MinMemory = 4
	cfg.ProcessGeneration.MaxMemory = 8
	cfg.ProcessGeneration.TotalCommandsMin = 2
	cfg.ProcessGeneration.TotalCommandsMax = 4
	return cfg
}

func TestLoadNewTaskAssignsIncreasingPIDs(t *testing.T) {
	m := New(smallConfig(), nil)
	cmdCfg := process.CommandsConfig{TotalCommands: 3, IODurationMin: 1, IODurationMax: 2, OperandMin: 1, OperandMax: 5}

	pid1, err := m.LoadNewTask(4, cmdCfg)
	if err != nil {
		t.Fatalf("LoadNewTask: %v", err)
	}
	pid2, err := m.LoadNewTask(4, cmdCfg)
	if err != nil {
		t.Fatalf("LoadNewTask: %v", err)
	}
	if pid2 <= pid1 {
		t.Errorf("pids got: %d, %d expected strictly increasing", pid1, pid2)
	}
}

func TestLoadNewTaskTableFull(t *testing.T) {
	cfg := smallConfig()
	cfg.Memory.ProcTableSize = 1
	m := New(cfg, nil)
	cmdCfg := process.CommandsConfig{TotalCommands: 1, OperandMin: 1, OperandMax: 5}

	if _, err := m.LoadNewTask(4, cmdCfg); err != nil {
		t.Fatalf("first LoadNewTask: %v", err)
	}
	if _, err := m.LoadNewTask(4, cmdCfg); !errors.Is(err, ErrTableFull) {
		t.Errorf("second LoadNewTask got: %v expected: ErrTableFull", err)
	}
}

func TestLoadNewTaskNotEnoughMemory(t *testing.T) {
	m := New(smallConfig(), nil)
	cmdCfg := process.CommandsConfig{TotalCommands: 1, OperandMin: 1, OperandMax: 5}
	if _, err := m.LoadNewTask(1000, cmdCfg); !errors.Is(err, ErrNotEnoughMemory) {
		t.Errorf("LoadNewTask got: %v expected: ErrNotEnoughMemory", err)
	}
}

// Invariant I4 / counter monotonicity, spec.md §8.
func TestPerformTickAdvancesOSMulti(t *testing.T) {
	m := New(smallConfig(), nil)
	before := m.Stats().OS().TMulti
	if err := m.PerformTick(); err != nil {
		t.Fatalf("PerformTick: %v", err)
	}
	after := m.Stats().OS().TMulti
	if after != before+1 {
		t.Errorf("OS TMulti got: %v expected: %v", after, before+1)
	}
}

func TestPerformTickSpawnsAndRunsToCompletion(t *testing.T) {
	m := New(smallConfig(), nil)
	for i := 0; i < 500 && m.Stats().OS().MMulti == 0; i++ {
		if err := m.PerformTick(); err != nil {
			t.Fatalf("PerformTick at iteration %d: %v", i, err)
		}
	}
	if m.Stats().OS().MMulti == 0 {
		t.Fatal("no process completed within 500 ticks")
	}
}

func TestPerformTickNoOpAfterTerminate(t *testing.T) {
	m := New(smallConfig(), nil)
	m.Terminate()
	before := m.Stats().OS().TMulti
	if err := m.PerformTick(); err != nil {
		t.Fatalf("PerformTick after Terminate: %v", err)
	}
	if m.Stats().OS().TMulti != before {
		t.Errorf("PerformTick after Terminate should be a no-op, OS TMulti changed: %v -> %v", before, m.Stats().OS().TMulti)
	}
	if m.Running() {
		t.Error("Running() should be false after Terminate")
	}
}

func TestTerminateResetsMemoryMap(t *testing.T) {
	m := New(smallConfig(), nil)
	cmdCfg := process.CommandsConfig{TotalCommands: 1, OperandMin: 1, OperandMax: 5}
	m.LoadNewTask(4, cmdCfg)
	m.Terminate()

	segs := m.Memory().Segments()
	if len(segs) != 1 || segs[0].Owner >= 0 {
		t.Errorf("segments after Terminate got: %+v expected: a single free segment", segs)
	}
}

func TestSpeedClamping(t *testing.T) {
	m := New(smallConfig(), nil)
	m.SetSpeed(1000)
	if m.Speed() != m.cfg.Speed.MaxSpeed {
		t.Errorf("Speed got: %v expected clamp to MaxSpeed: %v", m.Speed(), m.cfg.Speed.MaxSpeed)
	}
	m.SetSpeed(-5)
	if m.Speed() != m.cfg.Speed.MinSpeed {
		t.Errorf("Speed got: %v expected clamp to MinSpeed: %v", m.Speed(), m.cfg.Speed.MinSpeed)
	}
}

func TestSetLoadingEnabledStopsSpawning(t *testing.T) {
	m := New(smallConfig(), nil)
	m.SetLoadingEnabled(false)
	for i := 0; i < 5; i++ {
		if err := m.PerformTick(); err != nil {
			t.Fatalf("PerformTick: %v", err)
		}
	}
	if m.Memory().ProcessCount() != 0 {
		t.Errorf("ProcessCount got: %d expected: 0 with loading disabled", m.Memory().ProcessCount())
	}
	if _, ok := m.GenerateNewTask(); !ok {
		t.Error("GenerateNewTask should succeed even while automatic loading is disabled")
	}
}

func TestFinishKillTerminatesWhenTableEmpties(t *testing.T) {
	m := New(smallConfig(), nil)
	for i := 0; i < 50 && m.Memory().ProcessCount() == 0; i++ {
		m.PerformTick()
	}
	if m.Memory().ProcessCount() == 0 {
		t.Fatal("expected at least one process loaded before arming FinishKill")
	}
	m.FinishKill()
	for i := 0; i < 500 && m.Running(); i++ {
		if err := m.PerformTick(); err != nil {
			t.Fatalf("PerformTick: %v", err)
		}
	}
	if m.Running() {
		t.Error("engine should have self-terminated once the table drained")
	}
}

func TestStopAndResumeTaskRoundTrip(t *testing.T) {
	m := New(smallConfig(), nil)
	cmdCfg := process.CommandsConfig{TotalCommands: 1000, OperandMin: 1, OperandMax: 5}
	pid, err := m.LoadNewTask(4, cmdCfg)
	if err != nil {
		t.Fatalf("LoadNewTask: %v", err)
	}
	if err := m.PerformTick(); err != nil {
		t.Fatalf("PerformTick: %v", err)
	}

	if !m.StopTask(pid) {
		t.Fatal("StopTask should succeed on a running process")
	}
	if err := m.PerformTick(); err != nil {
		t.Fatalf("PerformTick: %v", err)
	}
	p, _ := m.Process(pid)
	if p.State != process.StateStoppedCPU {
		t.Errorf("state got: %v expected: STOPPED_CPU", p.State)
	}

	if !m.ResumeTask(pid) {
		t.Fatal("ResumeTask should succeed on a stopped process")
	}
	if err := m.PerformTick(); err != nil {
		t.Fatalf("PerformTick: %v", err)
	}
	if p.State == process.StateStoppedCPU {
		t.Error("process should no longer be stopped after ResumeTask")
	}
}

func TestKillTaskUnknownPID(t *testing.T) {
	m := New(smallConfig(), nil)
	if m.KillTask(999) {
		t.Error("KillTask on an unknown pid should report false")
	}
}

func TestSetRandomSeedAffectsFutureGeneration(t *testing.T) {
	m := New(smallConfig(), nil)
	m.SetRandomSeed(7)
	if _, ok := m.GenerateNewTask(); !ok {
		t.Fatal("GenerateNewTask should succeed after reseeding")
	}
}

func TestChangeSpeedDirections(t *testing.T) {
	m := New(smallConfig(), nil)
	start := m.Speed()
	m.ChangeSpeed(SpeedUp)
	if m.Speed() <= start {
		t.Errorf("SpeedUp got: %v expected > %v", m.Speed(), start)
	}
	m.ChangeSpeed(SpeedDown)
	if m.Speed() >= m.cfg.Speed.Speed+m.cfg.Speed.SpeedMultiplier {
		t.Errorf("SpeedDown should have undone the SpeedUp step")
	}
}
