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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/rhizome/errors"
)

type account struct {
	ID      string `json:"id" msgpack:"id"`
	Balance int64  `json:"balance" msgpack:"balance"`
}

func TestClientMap(t *testing.T) {
	ctx := context.Background()

	t.Run("With the group namespace", func(t *testing.T) {
		mock := newMockClient()
		client := &Client{Client: mock, name: "primary", group: "g1", serializer: jsonSerializer{}}

		accounts, err := client.Map("accounts")
		require.NoError(t, err)
		require.Equal(t, "g1.accounts", accounts.Name())
		require.Contains(t, mock.dmaps, "g1.accounts")
	})
	t.Run("Without a group", func(t *testing.T) {
		client := &Client{Client: newMockClient(), name: "primary", serializer: jsonSerializer{}}

		accounts, err := client.Map("accounts")
		require.NoError(t, err)
		require.Equal(t, "accounts", accounts.Name())
	})
	t.Run("With a map that cannot be opened", func(t *testing.T) {
		mock := newMockClient()
		mock.newDMapErr = errors.New("routing table is not available")
		client := &Client{Client: mock, name: "primary", serializer: jsonSerializer{}}

		accounts, err := client.Map("accounts")
		require.Error(t, err)
		require.ErrorIs(t, err, mock.newDMapErr)
		require.Nil(t, accounts)
	})

	for _, format := range []string{JSONFormat, MsgpackFormat} {
		t.Run("With a round trip in "+format, func(t *testing.T) {
			serializer, err := (&SerializationConfig{Format: format}).Serializer()
			require.NoError(t, err)

			client := &Client{Client: newMockClient(), name: "primary", group: "g1", serializer: serializer}
			accounts, err := client.Map("accounts")
			require.NoError(t, err)

			expected := &account{ID: "acc-1", Balance: 1200}
			require.NoError(t, accounts.Put(ctx, expected.ID, expected))

			actual := new(account)
			require.NoError(t, accounts.Get(ctx, expected.ID, actual))
			require.Equal(t, expected, actual)

			deleted, err := accounts.Delete(ctx, expected.ID, "acc-2")
			require.NoError(t, err)
			require.Equal(t, 1, deleted)

			err = accounts.Get(ctx, expected.ID, actual)
			require.ErrorIs(t, err, gerrors.ErrKeyNotFound)
		})
	}

	t.Run("With a failing put", func(t *testing.T) {
		mock := newMockClient()
		client := &Client{Client: mock, name: "primary", serializer: jsonSerializer{}}
		accounts, err := client.Map("accounts")
		require.NoError(t, err)

		putErr := errors.New("quorum not reached")
		mock.dmaps["accounts"].putErr = putErr
		require.ErrorIs(t, accounts.Put(ctx, "acc-1", &account{ID: "acc-1"}), putErr)
	})
	t.Run("With a failing get", func(t *testing.T) {
		mock := newMockClient()
		client := &Client{Client: mock, name: "primary", serializer: jsonSerializer{}}
		accounts, err := client.Map("accounts")
		require.NoError(t, err)

		getErr := errors.New("connection reset")
		mock.dmaps["accounts"].getErr = getErr
		err = accounts.Get(ctx, "acc-1", new(account))
		require.ErrorIs(t, err, getErr)
		require.NotErrorIs(t, err, gerrors.ErrKeyNotFound)
	})
	t.Run("With a value that cannot be encoded", func(t *testing.T) {
		client := &Client{Client: newMockClient(), name: "primary", serializer: jsonSerializer{}}
		accounts, err := client.Map("accounts")
		require.NoError(t, err)

		err = accounts.Put(ctx, "acc-1", make(chan int))
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to encode value of key=acc-1")
	})
}
