/*
 * pdp10 - Main process.
 *
 * Copyright 2024, Richard Cornwell
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

// Command pdp10 is the CLI front end: it loads a configuration file, builds
// a Machine, optionally IPLs a boot image, and drops into an examine/
// deposit/run console, grounded on the teacher's main.go (getopt flags,
// slog setup, signal handling, config load) and command/reader/reader.go
// (liner-driven console loop) verbatim in spirit.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	getopt "github.com/pborman/getopt/v2"
	"github.com/peterh/liner"

	"github.com/pdp10-clones/sims/devices"
	"github.com/pdp10-clones/sims/internal/config"
	"github.com/pdp10-clones/sims/internal/cpu"
	"github.com/pdp10-clones/sims/internal/logger"

	_ "github.com/pdp10-clones/sims/internal/debug"
)

// Logger is the process-wide slog output, matching the teacher's
// package-level Logger in main.go.
var Logger *slog.Logger

func main() {
	optConfigFile := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optIPLFile := getopt.StringLong("ipl", 'i', "", "Boot image: one octal word per line, loaded from address 0")
	optHistory := getopt.StringLong("history", 's', "1024", "Instruction history ring size")
	optDebug := getopt.BoolLong("debug", 'd', "Echo log records to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "unable to create log file:", err)
			os.Exit(1)
		}
	}

	debugFlag := *optDebug
	Logger = logger.New(file, slog.LevelInfo, debugFlag)
	slog.SetDefault(Logger)
	Logger.Info("pdp10 started", "variant", cpu.VariantName)

	if *optConfigFile != "" {
		if _, err := os.Stat(*optConfigFile); os.IsNotExist(err) {
			Logger.Error("configuration file can't be found", "file", *optConfigFile)
			os.Exit(1)
		}
		if err := config.LoadConfigFile(*optConfigFile); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	histSize, err := strconv.Atoi(*optHistory)
	if err != nil {
		histSize = 1024
	}

	m := cpu.NewMachine(cpu.Config{
		ClockHz:     60,
		HistorySize: histSize,
	})

	registerConsole(m)

	if *optIPLFile != "" {
		if err := ipl(m, *optIPLFile); err != nil {
			Logger.Error("IPL failed", "error", err.Error())
			os.Exit(1)
		}
		Logger.Info("IPL complete", "file", *optIPLFile)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		Logger.Info("received shutdown signal")
		os.Exit(0)
	}()

	runConsole(m)
	Logger.Info("pdp10 exiting")
}

// registerConsole binds an illustrative TTY device-bus citizen at device
// number 0100 (octal), a free slot well above the four reserved core
// device numbers (0, 1, 2 and 4).
func registerConsole(m *cpu.Machine) {
	const consoleDevice uint16 = 0100
	tty := devices.NewTTY(os.Stdin, os.Stdout, 6, func(level int) {
		m.Intr.SetInterrupt(consoleDevice, level)
	})
	if err := m.Bus.RegisterDevice(consoleDevice, tty.Bus); err != nil {
		Logger.Warn("console TTY not registered", "error", err.Error())
	}
}

// ipl implements a minimal bootstrap loader: one octal word per line,
// deposited starting at address 0, PC left at 0 on return. Real IPL
// (RIM10/boot-switch register loading) is out of scope (spec.md §1's
// simulator-front-end Non-goal); this is the CLI's illustrative stand-in.
func ipl(m *cpu.Machine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	addr := uint32(0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, err := strconv.ParseUint(line, 8, 36)
		if err != nil {
			return fmt.Errorf("ipl: invalid octal word %q: %w", line, err)
		}
		if err := m.Deposit(addr, word); err != nil {
			return err
		}
		addr++
	}
	return scanner.Err()
}

// runConsole drives the examine/deposit/run REPL, grounded on the
// teacher's command/reader/reader.go liner loop.
func runConsole(m *cpu.Machine) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(in string) []string {
		candidates := []string{"examine", "deposit", "run", "step", "reset", "quit"}
		var out []string
		for _, c := range candidates {
			if strings.HasPrefix(c, in) {
				out = append(out, c)
			}
		}
		return out
	})

	for {
		input, err := line.Prompt("pdp10> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			Logger.Error("console read failed", "error", err.Error())
			return
		}
		line.AppendHistory(input)
		if quit := dispatchCommand(m, input); quit {
			return
		}
	}
}

func dispatchCommand(m *cpu.Machine, input string) (quit bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "quit", "q", "exit":
		return true
	case "reset":
		m.Reset()
		fmt.Println("reset")
	case "step", "s":
		n := 1
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil {
				n = v
			}
		}
		for i := 0; i < n; i++ {
			if reason := m.Step(); reason != cpu.StopNone {
				fmt.Printf("stopped: %s\n", reason)
				break
			}
		}
	case "run", "r":
		reason := m.Run()
		fmt.Printf("stopped: %s\n", reason)
	case "examine", "e":
		if len(args) < 1 {
			fmt.Println("usage: examine <octal-addr>")
			return false
		}
		addr, err := strconv.ParseUint(args[0], 8, 32)
		if err != nil {
			fmt.Println("bad address:", err)
			return false
		}
		v, err := m.Examine(uint32(addr))
		if err != nil {
			fmt.Println("examine failed:", err)
			return false
		}
		fmt.Printf("%06o: %012o\n", addr, v)
	case "deposit", "d":
		if len(args) < 2 {
			fmt.Println("usage: deposit <octal-addr> <octal-value>")
			return false
		}
		addr, err := strconv.ParseUint(args[0], 8, 32)
		if err != nil {
			fmt.Println("bad address:", err)
			return false
		}
		val, err := strconv.ParseUint(args[1], 8, 36)
		if err != nil {
			fmt.Println("bad value:", err)
			return false
		}
		if err := m.Deposit(uint32(addr), val); err != nil {
			fmt.Println("deposit failed:", err)
		}
	default:
		fmt.Println("unknown command:", cmd)
	}
	return false
}
