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
	"fmt"

	"github.com/tochemey/olric"

	gerrors "github.com/tochemey/rhizome/errors"
)

// namespaceSeparator joins the cluster group and the map name
const namespaceSeparator = "."

// Client is a live connection to a named data grid cluster.
// It embeds the olric client so the whole grid API remains available.
type Client struct {
	olric.Client

	name       string
	group      string
	password   string
	serializer Serializer
}

// Name returns the logical name the client was configured under
func (c *Client) Name() string {
	return c.name
}

// Group returns the cluster group of the client
func (c *Client) Group() string {
	return c.group
}

// Password returns the group credential the client was configured with
func (c *Client) Password() string {
	return c.password
}

// Serializer returns the serializer shared by the provider clients
func (c *Client) Serializer() Serializer {
	return c.serializer
}

// Map opens the distributed map with the given name in the client group namespace.
func (c *Client) Map(name string, options ...olric.DMapOption) (*Map, error) {
	dmap, err := c.NewDMap(c.namespace(name), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to open map %s on %s: %w", name, c.name, err)
	}

	return &Map{dmap: dmap, serializer: c.serializer}, nil
}

func (c *Client) namespace(name string) string {
	if c.group == "" {
		return name
	}
	return c.group + namespaceSeparator + name
}

// Map is a distributed map whose values are encoded with the provider serializer.
type Map struct {
	dmap       olric.DMap
	serializer Serializer
}

// Name returns the fully qualified name of the map
func (m *Map) Name() string {
	return m.dmap.Name()
}

// Put encodes value and stores it under key.
func (m *Map) Put(ctx context.Context, key string, value any, options ...olric.PutOption) error {
	bytea, err := m.serializer.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value of key=%s: %w", key, err)
	}
	return m.dmap.Put(ctx, key, bytea, options...)
}

// Get fetches the value stored under key and decodes it into target.
// It returns errors.ErrKeyNotFound when the key does not exist.
func (m *Map) Get(ctx context.Context, key string, target any) error {
	resp, err := m.dmap.Get(ctx, key)
	if err != nil {
		if errors.Is(err, olric.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", gerrors.ErrKeyNotFound, key)
		}
		return err
	}

	bytea, err := resp.Byte()
	if err != nil {
		return err
	}

	if err := m.serializer.Unmarshal(bytea, target); err != nil {
		return fmt.Errorf("failed to decode value of key=%s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys and returns the number of deleted entries.
func (m *Map) Delete(ctx context.Context, keys ...string) (int, error) {
	return m.dmap.Delete(ctx, keys...)
}
