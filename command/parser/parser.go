/*
 * ossim - Command parser.
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

// Package parser implements the interactive console's instruction
// set: terminate, speed control, load/loading toggles, per-task
// stop/continue/kill, reseeding, and show. ProcessCommand returns true
// when the console should exit.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/corewall/ossim/internal/core"
)

var errUnknownCommand = errors.New("unknown command")

var commandNames = []string{
	"help", "terminate", "speed+", "speed-", "speed",
	"stop", "continue", "load", "kill", "finish", "seed", "show",
}

// ProcessCommand parses and executes one line of console input against
// model. Returns (true, nil) for "terminate", which the caller should
// treat as a request to close the console.
func ProcessCommand(line string, model *core.OSModel) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch {
	case cmd == "help":
		fmt.Println(helpText)
		return false, nil

	case cmd == "terminate":
		model.Terminate()
		return true, nil

	case cmd == "speed+":
		model.ChangeSpeed(core.SpeedUp)
		fmt.Printf("Speed is %.3f\n", model.Speed())
		return false, nil

	case cmd == "speed-":
		model.ChangeSpeed(core.SpeedDown)
		fmt.Printf("Speed is %.3f\n", model.Speed())
		return false, nil

	case cmd == "speed":
		if len(args) < 1 {
			return false, errUnknownCommand
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return false, errUnknownCommand
		}
		model.SetSpeed(v)
		fmt.Printf("Speed is %.3f\n", model.Speed())
		return false, nil

	case cmd == "stop":
		return false, stopOrContinue(args, model, false)

	case cmd == "continue":
		return false, stopOrContinue(args, model, true)

	case cmd == "load":
		if len(args) < 1 || strings.ToLower(args[0]) != "task" {
			return false, errUnknownCommand
		}
		pid, ok := model.GenerateNewTask()
		if !ok {
			fmt.Println("Unable to generate a new task")
			return false, nil
		}
		fmt.Printf("Loaded new task with PID %d\n", pid)
		return false, nil

	case cmd == "kill":
		if len(args) < 1 {
			return false, errUnknownCommand
		}
		pid, err := strconv.Atoi(args[0])
		if err != nil {
			return false, errUnknownCommand
		}
		if !model.KillTask(pid) {
			fmt.Printf("Process with PID %d does not exist\n", pid)
			return false, nil
		}
		fmt.Printf("Process with PID %d killed\n", pid)
		return false, nil

	case cmd == "finish":
		model.FinishKill()
		fmt.Println("Loading of new tasks suspended; the model will stop once every running task finishes")
		return false, nil

	case cmd == "seed":
		if len(args) < 1 {
			return false, errUnknownCommand
		}
		seed, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return false, errUnknownCommand
		}
		model.SetRandomSeed(seed)
		fmt.Printf("Random generator seeded with %d\n", seed)
		return false, nil

	case cmd == "show":
		return false, show(args, model)

	default:
		return false, errUnknownCommand
	}
}

func stopOrContinue(args []string, model *core.OSModel, resume bool) error {
	if len(args) < 1 {
		return errUnknownCommand
	}
	switch strings.ToLower(args[0]) {
	case "loading":
		model.SetLoadingEnabled(resume)
		if resume {
			fmt.Println("Loading of new tasks resumed")
		} else {
			fmt.Println("Loading of new tasks suspended")
		}
		return nil
	case "task":
		if len(args) < 2 {
			return errUnknownCommand
		}
		pid, err := strconv.Atoi(args[1])
		if err != nil {
			return errUnknownCommand
		}
		var ok bool
		if resume {
			ok = model.ResumeTask(pid)
		} else {
			ok = model.StopTask(pid)
		}
		verb := "stopped"
		if resume {
			verb = "resumed"
		}
		if !ok {
			fmt.Printf("Task with PID %d could not be %s\n", pid, verb)
			return nil
		}
		fmt.Printf("Task with PID %d %s\n", pid, verb)
		return nil
	default:
		return errUnknownCommand
	}
}

// CompleteCmd returns the command names that complete the first word
// of line, for console tab-completion.
func CompleteCmd(line string) []string {
	fields := strings.Fields(line)
	if len(fields) > 1 || (len(fields) == 1 && strings.HasSuffix(line, " ")) {
		return nil
	}
	prefix := ""
	if len(fields) == 1 {
		prefix = strings.ToLower(fields[0])
	}
	var matches []string
	for _, name := range commandNames {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	return matches
}

const helpText = `Available commands:

terminate
    Shut the model down immediately and close the console.

speed+
    Increase the simulation speed by one step.

speed-
    Decrease the simulation speed by one step.

speed <value>
    Set the simulation speed to the given value.

stop loading
    Suspend automatic loading of new tasks.

continue loading
    Resume automatic loading of new tasks.

load task
    Load a single new task by hand.

stop task <pid>
    Suspend the task with the given PID.

continue task <pid>
    Resume a previously suspended task.

kill <pid>
    Terminate the task with the given PID.

finish
    Suspend loading of new tasks and shut the model down once every
    currently running task finishes.

seed <value>
    Seed the random generator; affects only future tasks.

show
    Summarize every task currently in the process table.

help
    Show this text.`
