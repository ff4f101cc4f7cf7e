// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"fmt"
	"io"
	golog "log"
	"os"
)

// discardLogger reports a level but writes nowhere.
// Fatal exits the process and Panic panics with the formatted message.
type discardLogger struct {
	level Level
}

var (
	discardStd     = golog.New(io.Discard, "", 0)
	discardWriters = []io.Writer{io.Discard}
)

func (d discardLogger) Info(...any)           {}
func (d discardLogger) Infof(string, ...any)  {}
func (d discardLogger) Warn(...any)           {}
func (d discardLogger) Warnf(string, ...any)  {}
func (d discardLogger) Error(...any)          {}
func (d discardLogger) Errorf(string, ...any) {}
func (d discardLogger) Debug(...any)          {}
func (d discardLogger) Debugf(string, ...any) {}

func (d discardLogger) Fatal(...any)          { os.Exit(1) }
func (d discardLogger) Fatalf(string, ...any) { os.Exit(1) }

func (d discardLogger) Panic(v ...any) { panic(fmt.Sprint(v...)) }

func (d discardLogger) Panicf(format string, v ...any) { panic(fmt.Sprintf(format, v...)) }

func (d discardLogger) With(...any) Logger { return d }

func (d discardLogger) LogLevel() Level { return d.level }

func (d discardLogger) LogOutput() []io.Writer { return discardWriters }

func (d discardLogger) StdLogger() *golog.Logger { return discardStd }
