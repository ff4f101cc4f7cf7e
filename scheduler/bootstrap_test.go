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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/rhizome/errors"
	"github.com/tochemey/rhizome/log"
)

func TestNoOpTask(t *testing.T) {
	task := NoOpTask()

	assert.Equal(t, "_rhizome:no-op", task.Name)
	assert.Zero(t, task.InitialDelay)
	assert.Zero(t, task.Period)
	assert.Equal(t, Milliseconds, task.TimeUnit)
	assert.Equal(t, NoOpDependencies{}, task.Dependencies)
	require.NotNil(t, task.Action)
	require.NoError(t, task.Validate())

	t.Run("With repeated concurrent runs", func(t *testing.T) {
		var wg sync.WaitGroup
		for range 64 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, task.Action(context.Background(), NoOpDependencies{}))
			}()
		}
		wg.Wait()
	})
	t.Run("With independent instances", func(t *testing.T) {
		other := NoOpTask()
		assert.Equal(t, task.Name, other.Name)
		assert.Equal(t, task.Dependencies, other.Dependencies)
	})
}

func TestRegisterBootstrapTasks(t *testing.T) {
	scheduler, err := NewScheduler(WithLogger(log.DiscardLogger))
	require.NoError(t, err)

	require.NoError(t, RegisterBootstrapTasks(scheduler))

	tasks := scheduler.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, NoOpTaskName, tasks[0].Name)

	err = RegisterBootstrapTasks(scheduler)
	require.ErrorIs(t, err, gerrors.ErrTaskExists)

	ctx := context.Background()
	require.NoError(t, scheduler.Start(ctx))
	require.NoError(t, scheduler.Stop(ctx))
}
