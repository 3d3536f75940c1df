/*
 * ossim - Physical memory
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

// Package memory models the simulator's physical memory: a fixed-size
// array of optional integer cells.
package memory

import "errors"

// ErrOutOfRange is returned by Read/Write when addr is not in [0, size).
var ErrOutOfRange = errors.New("memory: address out of range")

// Memory is a fixed-size array of optional int cells. A cell whose set
// flag is false was never written (uninitialized); Read reports it as 0.
type Memory struct {
	cells []optionalCell
	size  int
}

type optionalCell struct {
	set   bool
	value int
}

// New allocates a memory of size cells, all uninitialized.
func New(size int) *Memory {
	return &Memory{cells: make([]optionalCell, size), size: size}
}

// Size returns the number of cells.
func (m *Memory) Size() int {
	return m.size
}

// Read returns the value stored at addr, or 0 if the cell was never
// written. Fails with ErrOutOfRange when addr is not in [0, size).
func (m *Memory) Read(addr int) (int, error) {
	if addr < 0 || addr >= m.size {
		return 0, ErrOutOfRange
	}
	return m.cells[addr].value, nil
}

// Write stores value at addr. Fails with ErrOutOfRange when addr is
// not in [0, size).
func (m *Memory) Write(addr, value int) error {
	if addr < 0 || addr >= m.size {
		return ErrOutOfRange
	}
	m.cells[addr] = optionalCell{set: true, value: value}
	return nil
}

// Clear resets every cell to uninitialized, used by OSModel.Terminate.
func (m *Memory) Clear() {
	for i := range m.cells {
		m.cells[i] = optionalCell{}
	}
}

// ClearRange resets the length cells starting at start to uninitialized,
// used by the memory manager to scrub a freed process's segment before
// it can be handed to another owner. Addresses outside [0, size) are
// silently skipped so a caller operating on a bounds-checked segment
// never needs to special-case the edges.
func (m *Memory) ClearRange(start, length int) {
	end := start + length
	if start < 0 {
		start = 0
	}
	if end > m.size {
		end = m.size
	}
	for i := start; i < end; i++ {
		m.cells[i] = optionalCell{}
	}
}
