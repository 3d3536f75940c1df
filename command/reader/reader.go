/*
 * ossim - Command reader.
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

// Package reader drives the interactive console: a liner prompt with
// history and tab completion, feeding each line to command/parser. The
// prompt itself reflects the engine's live state (current speed, or
// that the run has terminated) so an operator watching the console
// doesn't need a separate "show" to notice the engine stopped.
package reader

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/peterh/liner"

	"github.com/corewall/ossim/command/parser"
	"github.com/corewall/ossim/internal/core"
)

// ConsoleReader blocks, reading commands from stdin and applying them
// to model, until "terminate" is issued or the prompt is aborted
// (Ctrl-D/Ctrl-C).
func ConsoleReader(model *core.OSModel) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) []string {
		return parser.CompleteCmd(line)
	})

	for {
		command, err := line.Prompt(prompt(model))
		if err == nil {
			line.AppendHistory(command)
			quit, err := parser.ProcessCommand(command, model)
			if err != nil {
				fmt.Println("Error: " + err.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("error reading line: " + err.Error())
		return
	}
}

// prompt reports the engine's speed while it's running, or that it has
// terminated, so the operator sees the current run state on every line
// without having to issue "show" first.
func prompt(model *core.OSModel) string {
	if !model.Running() {
		return "ossim[terminated]> "
	}
	return fmt.Sprintf("ossim[%.1fx]> ", model.Speed())
}
