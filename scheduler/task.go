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

package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	gerrors "github.com/tochemey/rhizome/errors"
)

// TimeUnit is the unit of a task delay and period
type TimeUnit int

const (
	Nanoseconds TimeUnit = iota
	Microseconds
	Milliseconds
	Seconds
	Minutes
	Hours
	Days
)

var timeUnits = map[TimeUnit]struct {
	name     string
	duration time.Duration
}{
	Nanoseconds:  {"nanoseconds", time.Nanosecond},
	Microseconds: {"microseconds", time.Microsecond},
	Milliseconds: {"milliseconds", time.Millisecond},
	Seconds:      {"seconds", time.Second},
	Minutes:      {"minutes", time.Minute},
	Hours:        {"hours", time.Hour},
	Days:         {"days", 24 * time.Hour},
}

// String returns the lowercase name of the unit
func (u TimeUnit) String() string {
	if unit, ok := timeUnits[u]; ok {
		return unit.name
	}
	return fmt.Sprintf("TimeUnit(%d)", int(u))
}

// IsValid reports whether u is a known unit
func (u TimeUnit) IsValid() bool {
	_, ok := timeUnits[u]
	return ok
}

// Duration converts the given amount of u into a time.Duration
func (u TimeUnit) Duration(amount int64) time.Duration {
	return time.Duration(amount) * timeUnits[u].duration
}

// ParseTimeUnit parses a unit name such as "seconds"
func ParseTimeUnit(text string) (TimeUnit, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	for unit, def := range timeUnits {
		if def.name == text {
			return unit, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown time unit %q", gerrors.ErrInvalidTaskSchedule, text)
}

// Dependencies is the set of collaborators a task needs to run.
// A task declares a value of the type it needs; the scheduler hands it the
// instance of that type supplied with WithDependencies.
type Dependencies any

// Action is the work of a task. deps is the resolved instance of the task dependencies.
type Action func(ctx context.Context, deps Dependencies) error

// Task is a unit of work run by the Scheduler.
//
// A task with a positive Period runs at a fixed rate, the first run happening after
// InitialDelay. A task with a zero Period runs once after InitialDelay.
type Task struct {
	// Name identifies the task. It must be unique within a scheduler
	Name string
	// InitialDelay is the delay, in TimeUnit, before the first run
	InitialDelay int64
	// Period is the interval, in TimeUnit, between two runs
	Period int64
	// TimeUnit is the unit of InitialDelay and Period
	TimeUnit TimeUnit
	// Dependencies declares the type of the collaborators the task needs
	Dependencies Dependencies
	// Action is the work run on every trigger
	Action Action
}

// Validate checks the task definition
func (t Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return gerrors.ErrTaskNameRequired
	}

	if t.InitialDelay < 0 || t.Period < 0 {
		return fmt.Errorf("%w: task %s has a negative delay or period", gerrors.ErrInvalidTaskSchedule, t.Name)
	}

	if !t.TimeUnit.IsValid() {
		return fmt.Errorf("%w: task %s has an unknown time unit %s", gerrors.ErrInvalidTaskSchedule, t.Name, t.TimeUnit)
	}

	if t.Action == nil {
		return fmt.Errorf("%w: task %s has no action", gerrors.ErrInvalidTaskSchedule, t.Name)
	}
	return nil
}

// delay returns the initial delay as a time.Duration
func (t Task) delay() time.Duration {
	return t.TimeUnit.Duration(t.InitialDelay)
}

// period returns the period as a time.Duration
func (t Task) period() time.Duration {
	return t.TimeUnit.Duration(t.Period)
}
