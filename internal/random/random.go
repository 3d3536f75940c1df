/*
 * ossim - Seedable uniform random source
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

// Package random wraps a seedable uniform generator so the rest of the
// engine never imports math/rand directly. A negative seed means
// "nondeterministic" (seed from the current time).
package random

import (
	"math/rand/v2"
	"time"
)

// Source produces uniform integers and floats for process/command
// generation. Not safe for concurrent use; the engine only ever calls
// it from the single-threaded tick loop.
type Source struct {
	r *rand.Rand
}

// New creates a Source. seed < 0 seeds from the current time instead
// of a fixed value.
func New(seed int64) *Source {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{r: rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1|1)))}
}

// Reseed reinitializes the generator. Used by the "seed" console
// command; affects only future draws.
func (s *Source) Reseed(seed int64) {
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	s.r = rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1|1)))
}

// IntRange returns a uniform int in [min, max].
func (s *Source) IntRange(minV, maxV int) int {
	if maxV <= minV {
		return minV
	}
	return minV + s.r.IntN(maxV-minV+1)
}

// FloatRange returns a uniform float64 in [min, max).
func (s *Source) FloatRange(minV, maxV float64) float64 {
	if maxV <= minV {
		return minV
	}
	return minV + s.r.Float64()*(maxV-minV)
}
