/*
 * ossim - "show" command rendering
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

package parser

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/corewall/ossim/internal/core"
)

// show renders either one process's detail (a PID argument) or a
// table summarizing every process currently in the table, followed
// by the system-wide statistics line.
func show(args []string, model *core.OSModel) error {
	if len(args) >= 1 {
		pid, err := strconv.Atoi(args[0])
		if err != nil {
			return errUnknownCommand
		}
		return showOne(pid, model)
	}
	showAll(model)
	return nil
}

func showOne(pid int, model *core.OSModel) error {
	p, ok := model.Process(pid)
	if !ok {
		fmt.Printf("Process with PID %d does not exist\n", pid)
		return nil
	}
	pe, _ := model.Stats().Process(pid)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"field", "value"})
	table.Append([]string{"pid", strconv.Itoa(p.PID)})
	table.Append([]string{"state", p.State.String()})
	table.Append([]string{"block start", strconv.Itoa(p.Mem.BlockStart)})
	table.Append([]string{"block size", strconv.Itoa(p.Mem.BlockSize)})
	table.Append([]string{"commands executed", strconv.Itoa(p.TotalExecuted)})
	table.Append([]string{"total commands", strconv.Itoa(p.Cmds.TotalCommands)})
	table.Append([]string{"t_active", fmt.Sprintf("%.3f", pe.TActive)})
	table.Append([]string{"t_passive", fmt.Sprintf("%.3f", pe.TPassive)})
	table.Append([]string{"t_sys_mono", fmt.Sprintf("%.3f", pe.TSysMono)})
	table.Render()
	return nil
}

func showAll(model *core.OSModel) {
	procs := model.Memory().Processes()
	pids := make([]int, 0, len(procs))
	for pid := range procs {
		pids = append(pids, pid)
	}
	sort.Ints(pids)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"pid", "state", "block start", "block size", "executed/total"})
	for _, pid := range pids {
		p := procs[pid]
		table.Append([]string{
			strconv.Itoa(p.PID),
			p.State.String(),
			strconv.Itoa(p.Mem.BlockStart),
			strconv.Itoa(p.Mem.BlockSize),
			fmt.Sprintf("%d/%d", p.TotalExecuted, p.Cmds.TotalCommands),
		})
	}
	table.Render()

	osStats := model.Stats().OS()
	fmt.Printf("tasks loaded: %d  completed: %d  speed: %.3f  loading: %v\n",
		osStats.TasksLoaded, int(osStats.MMulti), model.Speed(), model.LoadingEnabled())
}
