/*
 * ossim - Configuration file parser
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

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * blank lines are ignored.
 * '[section]' starts a new section; recognized sections are memory,
 * cpu, io, speed, process_generation, command_generation, random,
 * time_costs.
 * 'key = value' sets one field within the current section; unknown
 * sections or keys make Load return a ParseError.
 */

// Package configparser loads a config.OSConfig from a line-oriented
// text file. A missing file or a malformed line is never fatal to the
// caller: LoadFile returns an error the caller logs, and the caller
// falls back to config.Default().
package configparser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/corewall/ossim/config"
)

// ParseError reports the line number and underlying cause of a
// malformed configuration line.
type ParseError struct {
	Line  int
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("configparser: line %d: %v", e.Line, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// LoadFile reads name and returns the configuration it describes,
// starting from config.Default() so any field the file omits keeps
// its documented default.
func LoadFile(name string) (config.OSConfig, error) {
	file, err := os.Open(name)
	if err != nil {
		return config.Default(), err
	}
	defer file.Close()
	return Load(file)
}

// Load reads a configuration from r. See LoadFile.
func Load(r io.Reader) (config.OSConfig, error) {
	cfg := config.Default()

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	section := ""

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return cfg, &ParseError{Line: lineNumber, Cause: fmt.Errorf("unterminated section header %q", line)}
			}
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return cfg, &ParseError{Line: lineNumber, Cause: fmt.Errorf("expected key = value, got %q", line)}
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if err := setField(&cfg, section, key, value); err != nil {
			return cfg, &ParseError{Line: lineNumber, Cause: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setField(cfg *config.OSConfig, section, key, value string) error {
	switch section {
	case "memory":
		return setIntField(key, value, map[string]*int{
			"total_memory":    &cfg.Memory.TotalMemory,
			"proc_table_size": &cfg.Memory.ProcTableSize,
		})
	case "cpu":
		return setIntField(key, value, map[string]*int{
			"cpus_num":     &cfg.CPU.CPUsNum,
			"quantum_size": &cfg.CPU.QuantumSize,
		})
	case "io":
		return setIntField(key, value, map[string]*int{
			"ios_num": &cfg.IO.IOsNum,
		})
	case "speed":
		return setFloatField(key, value, map[string]*float64{
			"speed":            &cfg.Speed.Speed,
			"speed_multiplier": &cfg.Speed.SpeedMultiplier,
			"min_speed":        &cfg.Speed.MinSpeed,
			"max_speed":        &cfg.Speed.MaxSpeed,
		})
	case "process_generation":
		intFields := map[string]*int{
			"min_memory":              &cfg.ProcessGeneration.MinMemory,
			"max_memory":              &cfg.ProcessGeneration.MaxMemory,
			"total_commands_min":      &cfg.ProcessGeneration.TotalCommandsMin,
			"total_commands_max":      &cfg.ProcessGeneration.TotalCommandsMax,
			"io_command_duration_min": &cfg.ProcessGeneration.IOCommandDurationMin,
			"io_command_duration_max": &cfg.ProcessGeneration.IOCommandDurationMax,
		}
		if _, ok := intFields[key]; ok {
			return setIntField(key, value, intFields)
		}
		return setFloatField(key, value, map[string]*float64{
			"io_percentage_min": &cfg.ProcessGeneration.IOPercentageMin,
			"io_percentage_max": &cfg.ProcessGeneration.IOPercentageMax,
		})
	case "command_generation":
		return setIntField(key, value, map[string]*int{
			"operand_min":          &cfg.CommandGeneration.OperandMin,
			"operand_max":          &cfg.CommandGeneration.OperandMax,
			"operands_block_shift": &cfg.CommandGeneration.OperandsBlockShift,
			"result_block_shift":   &cfg.CommandGeneration.ResultBlockShift,
		})
	case "random":
		if key != "random_seed" {
			return fmt.Errorf("unknown key %q in [random]", key)
		}
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("random_seed: %w", err)
		}
		cfg.Random.RandomSeed = seed
		return nil
	case "time_costs":
		return setFloatField(key, value, map[string]*float64{
			"t_next":    &cfg.TimeCosts.TNext,
			"t_state":   &cfg.TimeCosts.TState,
			"t_init_io": &cfg.TimeCosts.TInitIO,
			"t_end_io":  &cfg.TimeCosts.TEndIO,
			"t_load":    &cfg.TimeCosts.TLoad,
			"t_global":  &cfg.TimeCosts.TGlobal,
		})
	default:
		return fmt.Errorf("unknown section %q", section)
	}
}

func setIntField(key, value string, fields map[string]*int) error {
	dst, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}

func setFloatField(key, value string, fields map[string]*float64) error {
	dst, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}
