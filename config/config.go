/*
 * ossim - Simulator configuration
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

// Package config holds the simulator's configuration tree: memory and
// device sizing, process/command generation ranges, the speed
// control, and the OS-overhead billing table. configparser loads one
// of these from a text file; cmd/ossim otherwise starts from
// Default().
package config

// TimeCosts is the billing table for OS overhead, in simulated ticks.
type TimeCosts struct {
	TNext   float64 // cost of selecting a process to run
	TState  float64 // cost of a process state transition
	TInitIO float64 // cost of initiating an IO operation
	TEndIO  float64 // cost of servicing an IO-completion signal
	TLoad   float64 // cost of loading a process onto a CPU
	TGlobal float64 // cost of touching shared data structures
}

// MemoryConfig sizes the simulated address space and process table.
type MemoryConfig struct {
	TotalMemory   int
	ProcTableSize int
}

// CPUConfig sizes the CPU pool.
type CPUConfig struct {
	CPUsNum     int
	QuantumSize int
}

// IOConfig sizes the IO controller pool.
type IOConfig struct {
	IOsNum int
}

// SpeedConfig bounds the interactive playback speed control.
type SpeedConfig struct {
	Speed           float64
	SpeedMultiplier float64
	MinSpeed        float64
	MaxSpeed        float64
}

// ProcessGenerationConfig parameterizes a newly spawned process.
type ProcessGenerationConfig struct {
	MinMemory            int
	MaxMemory            int
	TotalCommandsMin     int
	TotalCommandsMax     int
	IOPercentageMin      float64
	IOPercentageMax      float64
	IOCommandDurationMin int
	IOCommandDurationMax int
}

// CommandGenerationConfig parameterizes the ALU operand draw and the
// operand/result block layout.
type CommandGenerationConfig struct {
	OperandMin         int
	OperandMax         int
	OperandsBlockShift int
	ResultBlockShift   int
}

// RandomConfig seeds the shared random source. A negative seed means
// nondeterministic (wall-clock derived).
type RandomConfig struct {
	RandomSeed int64
}

// OSConfig is the complete configuration tree for one simulator run.
type OSConfig struct {
	Memory            MemoryConfig
	CPU               CPUConfig
	IO                IOConfig
	Speed             SpeedConfig
	ProcessGeneration ProcessGenerationConfig
	CommandGeneration CommandGenerationConfig
	Random            RandomConfig
	TimeCosts         TimeCosts
}

// Default returns the simulator's built-in configuration, used when no
// config file is given on the command line.
func Default() OSConfig {
	return OSConfig{
		Memory: MemoryConfig{TotalMemory: 1024, ProcTableSize: 64},
		CPU:    CPUConfig{CPUsNum: 3, QuantumSize: 5},
		IO:     IOConfig{IOsNum: 3},
		Speed: SpeedConfig{
			Speed:           1.0,
			SpeedMultiplier: 0.1,
			MinSpeed:        0.1,
			MaxSpeed:        10.0,
		},
		ProcessGeneration: ProcessGenerationConfig{
			MinMemory:            3,
			MaxMemory:            10,
			TotalCommandsMin:     1,
			TotalCommandsMax:     10,
			IOPercentageMin:      0.0,
			IOPercentageMax:      0.5,
			IOCommandDurationMin: 1,
			IOCommandDurationMax: 5,
		},
		CommandGeneration: CommandGenerationConfig{
			OperandMin:         1,
			OperandMax:         10,
			OperandsBlockShift: 0,
			ResultBlockShift:   2,
		},
		Random:    RandomConfig{RandomSeed: 1},
		TimeCosts: TimeCosts{TNext: 1, TState: 1, TInitIO: 1, TEndIO: 1, TLoad: 1, TGlobal: 1},
	}
}
