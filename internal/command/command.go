/*
 * ossim - Process command stream
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

// Package command models the small closed set of commands a process
// can generate each tick: an ALU op, an I/O wait, or exit. It's a
// tagged union rather than an interface hierarchy since the set never
// grows.
package command

import "github.com/corewall/ossim/internal/alu"

// Kind identifies which field of Command is meaningful.
type Kind int

const (
	KindALU Kind = iota
	KindIO
	KindExit
)

// Command is the value a Process.GenerateCommand returns each tick.
type Command struct {
	Kind Kind

	// Populated when Kind == KindALU.
	Addr1, Addr2 int
	Op           alu.Op

	// Populated when Kind == KindIO.
	Duration int
}

func ALU(addr1, addr2 int, op alu.Op) Command {
	return Command{Kind: KindALU, Addr1: addr1, Addr2: addr2, Op: op}
}

func IO(duration int) Command {
	return Command{Kind: KindIO, Duration: duration}
}

func Exit() Command {
	return Command{Kind: KindExit}
}
