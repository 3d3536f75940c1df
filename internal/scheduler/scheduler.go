/*
 * ossim - Ready/blocked FIFO queues
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

// Package scheduler holds the two FIFO queues of ready PIDs waiting
// for a CPU or an IO controller. It never touches process state or
// device bindings directly; it only bills the overhead of enqueuing
// and dequeuing.
package scheduler

import (
	"container/list"

	"github.com/corewall/ossim/config"
	"github.com/corewall/ossim/internal/stats"
)

// Scheduler holds the cpu_queue and io_queue FIFOs.
type Scheduler struct {
	costs config.TimeCosts
	stats *stats.Statistics

	cpuQueue *list.List
	ioQueue  *list.List
}

// New creates an empty scheduler billing against st using the given
// overhead table.
func New(costs config.TimeCosts, st *stats.Statistics) *Scheduler {
	return &Scheduler{
		costs:    costs,
		stats:    st,
		cpuQueue: list.New(),
		ioQueue:  list.New(),
	}
}

// EnqueueCPU appends pid to the CPU queue, billing t_global to OS
// multi-time (both as run time and as system overhead).
func (s *Scheduler) EnqueueCPU(pid int) {
	s.cpuQueue.PushBack(pid)
	s.stats.BillOSMulti(s.costs.TGlobal)
	s.stats.BillOSSysMulti(s.costs.TGlobal)
}

// DequeueCPU removes and returns the head of the CPU queue. A
// non-empty dequeue additionally bills t_next on top of t_global,
// since selecting the next process to run is itself a service.
func (s *Scheduler) DequeueCPU() (int, bool) {
	front := s.cpuQueue.Front()
	if front == nil {
		return 0, false
	}
	s.cpuQueue.Remove(front)

	s.stats.BillOSMulti(s.costs.TNext)
	s.stats.BillOSMulti(s.costs.TGlobal)
	s.stats.BillOSSysMulti(s.costs.TGlobal + s.costs.TNext)

	return front.Value.(int), true
}

// EnqueueIO appends pid to the IO queue, billing t_global.
func (s *Scheduler) EnqueueIO(pid int) {
	s.ioQueue.PushBack(pid)
	s.stats.BillOSMulti(s.costs.TGlobal)
	s.stats.BillOSSysMulti(s.costs.TGlobal)
}

// DequeueIO removes and returns the head of the IO queue, billing
// t_global.
func (s *Scheduler) DequeueIO() (int, bool) {
	front := s.ioQueue.Front()
	if front == nil {
		return 0, false
	}
	s.ioQueue.Remove(front)

	s.stats.BillOSMulti(s.costs.TGlobal)
	s.stats.BillOSSysMulti(s.costs.TGlobal)

	return front.Value.(int), true
}

// CPUQueueLen returns the number of PIDs waiting for a CPU.
func (s *Scheduler) CPUQueueLen() int { return s.cpuQueue.Len() }

// IOQueueLen returns the number of PIDs waiting for an IO controller.
func (s *Scheduler) IOQueueLen() int { return s.ioQueue.Len() }

// Reset empties both queues without billing. Used by OSModel.Terminate.
func (s *Scheduler) Reset() {
	s.cpuQueue.Init()
	s.ioQueue.Init()
}
