/*
   debug: log debug data to a file.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package debug provides cheap, mask-gated debug tracing to a single
// optional file, registered as a DEBUGFILE configuration directive.
// Carried over from the teacher's util/debug/debug.go: one global log
// file, three call shapes (generic, per-device, per-CPU) gated by a
// caller-supplied bitmask, same as S370's channel tracing need.
package debug

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pdp10-clones/sims/internal/config"
)

var logFile *os.File

// Debugf emits a generic trace line when mask&level is non-zero.
func Debugf(module string, mask int, level int, format string, a ...interface{}) {
	if logFile == nil || (mask&level) == 0 {
		return
	}
	fmt.Fprintf(logFile, module+": "+format+"\n", a...)
}

// DebugDevf emits a trace line tagged with a device number in octal,
// matching the device-number notation the rest of the emulator uses.
func DebugDevf(devNum uint16, mask int, level int, format string, a ...interface{}) {
	if logFile == nil || (mask&level) == 0 {
		return
	}
	dev := strconv.FormatUint(uint64(devNum), 8)
	fmt.Fprintf(logFile, "dev "+dev+": "+format+"\n", a...)
}

// DebugCPUf emits a trace line tagged with the CPU instance number, used
// for future multi-CPU configurations even though today's machine only
// ever instantiates one.
func DebugCPUf(number int, mask int, level int, format string, a ...interface{}) {
	if logFile == nil || (mask&level) == 0 {
		return
	}
	cpu := strconv.FormatInt(int64(number), 10)
	fmt.Fprintf(logFile, "cpu "+cpu+": "+format+"\n", a...)
}

func init() {
	config.RegisterFile("DEBUGFILE", create)
}

func create(_ uint16, fileName string, _ []config.Option) error {
	if logFile != nil {
		return fmt.Errorf("can't have more than one debug file, previous: %s", logFile.Name())
	}

	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("unable to create debug file: %s", fileName)
	}

	logFile = file
	return nil
}
