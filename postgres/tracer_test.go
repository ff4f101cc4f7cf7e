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

package postgres

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/rhizome/log"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func TestSlowQueryTracer(t *testing.T) {
	const query = "SELECT id FROM accounts WHERE owner = $1"

	t.Run("With a slow statement", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		clock := &fakeClock{current: time.Now()}
		tracer := newSlowQueryTracer(log.NewZap(log.InfoLevel, buffer), 15*time.Second)
		tracer.now = clock.now

		ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: query})
		clock.advance(16 * time.Second)
		tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

		require.NotZero(t, buffer.Len())
		assert.Contains(t, buffer.String(), "the following SQL query took 16000 ms")
		assert.Contains(t, buffer.String(), query)
		assert.Contains(t, buffer.String(), `"level":"warn"`)
	})
	t.Run("With a slow failing statement", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		clock := &fakeClock{current: time.Now()}
		tracer := newSlowQueryTracer(log.NewZap(log.InfoLevel, buffer), time.Second)
		tracer.now = clock.now

		ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: query})
		clock.advance(2 * time.Second)
		tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("canceling statement due to user request")})

		assert.Contains(t, buffer.String(), "took 2000 ms and failed")
	})
	t.Run("With a fast statement", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		clock := &fakeClock{current: time.Now()}
		tracer := newSlowQueryTracer(log.NewZap(log.InfoLevel, buffer), 15*time.Second)
		tracer.now = clock.now

		ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: query})
		clock.advance(15 * time.Second)
		tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

		assert.Zero(t, buffer.Len())
	})
	t.Run("Without a start record", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		tracer := newSlowQueryTracer(log.NewZap(log.InfoLevel, buffer), time.Nanosecond)
		tracer.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
		assert.Zero(t, buffer.Len())
	})
}
