/*
 * ossim - Main process.
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

package main

import (
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	getopt "github.com/pborman/getopt/v2"

	"github.com/corewall/ossim/command/reader"
	"github.com/corewall/ossim/config"
	"github.com/corewall/ossim/config/configparser"
	"github.com/corewall/ossim/internal/core"
	"github.com/corewall/ossim/util/logger"
)

// baseTickInterval is the wall-clock period of one tick at speed 1.0.
const baseTickInterval = 200 * time.Millisecond

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optSeed := getopt.Int64Long("seed", 's', 0, "Random seed (0 uses the configuration file's default)")
	optSpeed := getopt.Float64Long("speed", 'p', 0, "Initial simulation speed (0 uses the configuration file's default)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var out io.Writer = io.Discard
	if *optLogFile != "" {
		file, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error("unable to create log file", "path", *optLogFile, "error", err)
			os.Exit(1)
		}
		out = file
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debug := false
	log := slog.New(logger.NewHandler(out, &slog.HandlerOptions{Level: programLevel}, &debug))
	slog.SetDefault(log)

	cfg := config.Default()
	if *optConfig != "" {
		loaded, err := configparser.LoadFile(*optConfig)
		if err != nil {
			log.Error("unable to load configuration file, using defaults", "path", *optConfig, "error", err)
		} else {
			cfg = loaded
		}
	}

	if *optSeed != 0 {
		cfg.Random.RandomSeed = *optSeed
	}
	if *optSpeed != 0 {
		cfg.Speed.Speed = *optSpeed
	}

	model := core.New(cfg, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	consoleDone := make(chan struct{})
	go func() {
		reader.ConsoleReader(model)
		close(consoleDone)
	}()

	log.Info("ossim started")

	ticker := time.NewTicker(tickInterval(model.Speed()))
	defer ticker.Stop()

loop:
	for {
		select {
		case <-sigChan:
			log.Info("received interrupt signal, shutting down")
			break loop
		case <-consoleDone:
			log.Info("console closed, shutting down")
			break loop
		case <-ticker.C:
			if err := model.PerformTick(); err != nil {
				log.Error("tick failed", "error", err)
				break loop
			}
			if !model.Running() {
				log.Info("model finished, shutting down")
				break loop
			}
			ticker.Reset(tickInterval(model.Speed()))
		}
	}

	model.Terminate()
	log.Info("ossim stopped")
}

// tickInterval converts the model's real-time speed multiplier into
// the wall-clock delay before the next tick fires.
func tickInterval(speed float64) time.Duration {
	if speed <= 0 {
		speed = 1.0
	}
	d := time.Duration(float64(baseTickInterval) / speed)
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}
