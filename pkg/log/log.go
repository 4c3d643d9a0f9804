// Copyright 2023 Intel Corporation. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level is the log message severity level below which we suppress messages.
type Level int32

const (
	// LevelDebug corresponds to debug messages.
	LevelDebug Level = iota
	// LevelInfo corresponds to informational messages.
	LevelInfo
	// LevelWarn corresponds to warning messages.
	LevelWarn
	// LevelError corresponds to error messages.
	LevelError
)

// Logger is the interface for producing log messages for a source.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Fatal(format string, args ...interface{})

	DebugEnabled() bool
	Block(fn func(string, ...interface{}), prefix string, format string, args ...interface{})
	DebugBlock(prefix string, format string, args ...interface{})
	InfoBlock(prefix string, format string, args ...interface{})

	Source() string
}

// options capture the runtime state of the logging package.
type options struct {
	sync.Mutex
	level   Level
	debug   map[string]bool
	loggers map[string]*logger
	out     io.Writer
}

var opt = options{
	level:   LevelInfo,
	debug:   make(map[string]bool),
	loggers: make(map[string]*logger),
	out:     os.Stderr,
}

// logger is our Logger implementation.
type logger struct {
	source string
	prefix string
}

// Get returns the Logger for the given source, creating it if necessary.
func Get(source string) Logger {
	opt.Lock()
	defer opt.Unlock()
	return get(source)
}

// NewLogger is an alias for Get.
func NewLogger(source string) Logger {
	return Get(source)
}

func get(source string) *logger {
	source = strings.Trim(source, "[] ")
	if l, ok := opt.loggers[source]; ok {
		return l
	}
	l := &logger{
		source: source,
		prefix: "[" + source + "] ",
	}
	opt.loggers[source] = l
	return l
}

// SetLevel sets the lowest severity level that is not suppressed.
func SetLevel(level Level) {
	opt.Lock()
	defer opt.Unlock()
	opt.level = level
}

// SetDebug enables or disables debug messages for the given source.
// The pseudo-source "*" controls all sources.
func SetDebug(source string, enabled bool) {
	opt.Lock()
	defer opt.Unlock()
	opt.debug[strings.Trim(source, "[] ")] = enabled
}

// SetOutput redirects all log output to the given writer.
func SetOutput(w io.Writer) {
	opt.Lock()
	defer opt.Unlock()
	opt.out = w
}

func (l *logger) passthrough(level Level) bool {
	opt.Lock()
	defer opt.Unlock()
	if level == LevelDebug {
		return opt.debug[l.source] || opt.debug["*"]
	}
	return opt.level <= level
}

func (l *logger) emit(tag, format string, args ...interface{}) {
	opt.Lock()
	defer opt.Unlock()
	fmt.Fprintf(opt.out, tag+": "+l.prefix+format+"\n", args...)
}

// Source returns the source this logger was created for.
func (l *logger) Source() string {
	return l.source
}

// Debug formats and emits a debug message.
func (l *logger) Debug(format string, args ...interface{}) {
	if !l.passthrough(LevelDebug) {
		return
	}
	l.emit("D", format, args...)
}

// Info formats and emits an informational message.
func (l *logger) Info(format string, args ...interface{}) {
	if !l.passthrough(LevelInfo) {
		return
	}
	l.emit("I", format, args...)
}

// Warn formats and emits a warning message.
func (l *logger) Warn(format string, args ...interface{}) {
	if !l.passthrough(LevelWarn) {
		return
	}
	l.emit("W", format, args...)
}

// Error formats and emits an error message.
func (l *logger) Error(format string, args ...interface{}) {
	if !l.passthrough(LevelError) {
		return
	}
	l.emit("E", format, args...)
}

// Fatal formats and emits an error message and os.Exit()'s with status 1.
func (l *logger) Fatal(format string, args ...interface{}) {
	l.emit("E", format, args...)
	os.Exit(1)
}

// DebugEnabled checks if debug messages are enabled for this logger.
func (l *logger) DebugEnabled() bool {
	return l.passthrough(LevelDebug)
}

// Block formats a multiline message and emits every line with fn,
// prefixing each line after the first with the given prefix.
func (l *logger) Block(fn func(string, ...interface{}), prefix string, format string, args ...interface{}) {
	for idx, line := range strings.Split(fmt.Sprintf(format, args...), "\n") {
		if idx == 0 {
			fn("%s", line)
		} else {
			fn("%s%s", prefix, line)
		}
	}
}

// DebugBlock formats and emits a multiline debug message.
func (l *logger) DebugBlock(prefix string, format string, args ...interface{}) {
	if !l.passthrough(LevelDebug) {
		return
	}
	l.Block(l.Debug, prefix, format, args...)
}

// InfoBlock formats and emits a multiline informational message.
func (l *logger) InfoBlock(prefix string, format string, args ...interface{}) {
	if !l.passthrough(LevelInfo) {
		return
	}
	l.Block(l.Info, prefix, format, args...)
}
