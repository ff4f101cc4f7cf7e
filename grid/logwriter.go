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

package grid

import (
	"bytes"
	"io"
	"regexp"

	"github.com/tochemey/rhizome/log"
)

// logWriter routes the olric client log lines to a log.Logger.
// Every client created by the provider logs through one of these.
type logWriter struct {
	logger  log.Logger
	pattern *regexp.Regexp
}

// make sure that the logWriter implements the io.Writer interface fully
var _ io.Writer = (*logWriter)(nil)

// newLogWriter create an instance of logWriter
func newLogWriter(logger log.Logger) *logWriter {
	return &logWriter{
		logger:  logger,
		pattern: regexp.MustCompile(`\[(INFO|DEBUG|WARN|ERROR)\] (.+)`),
	}
}

// Write writes len(p) bytes from p to the underlying logger.
func (l *logWriter) Write(message []byte) (n int, err error) {
	text := string(bytes.TrimSpace(message))
	if text == "" {
		return len(message), nil
	}

	matches := l.pattern.FindStringSubmatch(text)
	if len(matches) < 3 {
		// lines without a level marker are olric internals
		l.logger.Debug(text)
		return len(message), nil
	}

	switch matches[1] {
	case "INFO":
		l.logger.Info(matches[2])
	case "DEBUG":
		l.logger.Debug(matches[2])
	case "WARN":
		l.logger.Warn(matches[2])
	case "ERROR":
		l.logger.Error(matches[2])
	}

	return len(message), nil
}
