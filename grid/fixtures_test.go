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
	"reflect"
	"sync"
	"unsafe"

	"github.com/tochemey/olric"
	"github.com/tochemey/olric/pkg/storage"
	"go.uber.org/atomic"
)

// MockClient is an in-memory stand-in of an olric cluster client
type MockClient struct {
	olric.Client

	closeErr   error
	closed     *atomic.Int32
	newDMapErr error
	dmaps      map[string]*MockDMap
	mu         sync.Mutex
}

func newMockClient() *MockClient {
	return &MockClient{
		closed: atomic.NewInt32(0),
		dmaps:  make(map[string]*MockDMap),
	}
}

// nolint
func (x *MockClient) NewDMap(name string, options ...olric.DMapOption) (olric.DMap, error) {
	if x.newDMapErr != nil {
		return nil, x.newDMapErr
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	dmap, ok := x.dmaps[name]
	if !ok {
		dmap = &MockDMap{name: name, entries: make(map[string][]byte)}
		x.dmaps[name] = dmap
	}
	return dmap, nil
}

// nolint
func (x *MockClient) Close(ctx context.Context) error {
	x.closed.Inc()
	return x.closeErr
}

// MockDMap keeps raw entries in memory
type MockDMap struct {
	olric.DMap

	name    string
	putErr  error
	getErr  error
	entries map[string][]byte
	mu      sync.Mutex
}

func (x *MockDMap) Name() string { return x.name }

// nolint
func (x *MockDMap) Put(ctx context.Context, key string, value any, options ...olric.PutOption) error {
	if x.putErr != nil {
		return x.putErr
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries[key] = append([]byte(nil), value.([]byte)...)
	return nil
}

// nolint
func (x *MockDMap) Get(ctx context.Context, key string) (*olric.GetResponse, error) {
	if x.getErr != nil {
		return nil, x.getErr
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	value, ok := x.entries[key]
	if !ok {
		return nil, olric.ErrKeyNotFound
	}
	return newGetResponseWithValue(value), nil
}

// nolint
func (x *MockDMap) Delete(ctx context.Context, keys ...string) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	count := 0
	for _, key := range keys {
		if _, ok := x.entries[key]; ok {
			delete(x.entries, key)
			count++
		}
	}
	return count, nil
}

type testEntry struct {
	key        string
	value      []byte
	ttl        int64
	timestamp  int64
	lastAccess int64
}

func (e *testEntry) SetKey(key string) { e.key = key }

func (e *testEntry) Key() string { return e.key }

func (e *testEntry) SetValue(value []byte) { e.value = append([]byte(nil), value...) }

func (e *testEntry) Value() []byte { return append([]byte(nil), e.value...) }

func (e *testEntry) SetTTL(ttl int64) { e.ttl = ttl }

func (e *testEntry) TTL() int64 { return e.ttl }

func (e *testEntry) SetTimestamp(ts int64) { e.timestamp = ts }

func (e *testEntry) Timestamp() int64 { return e.timestamp }

func (e *testEntry) SetLastAccess(ts int64) { e.lastAccess = ts }

func (e *testEntry) LastAccess() int64 { return e.lastAccess }

func (e *testEntry) Encode() []byte { return e.Value() }

func (e *testEntry) Decode(data []byte) { e.SetValue(data) }

func newGetResponseWithValue(value []byte) *olric.GetResponse {
	entry := &testEntry{}
	entry.SetValue(value)
	return newGetResponse(entry)
}

func newGetResponse(entry storage.Entry) *olric.GetResponse {
	resp := &olric.GetResponse{}
	rv := reflect.ValueOf(resp).Elem()

	entryField := rv.FieldByName("entry")
	reflect.NewAt(entryField.Type(), unsafe.Pointer(entryField.UnsafeAddr())).Elem().Set(reflect.ValueOf(entry))
	return resp
}

// recordingDialer hands out MockClient values and remembers every connection attempt
type recordingDialer struct {
	mu      sync.Mutex
	specs   []*connectSpec
	clients map[string]*MockClient
	failOn  map[string]error
}

func newRecordingDialer() *recordingDialer {
	return &recordingDialer{
		clients: make(map[string]*MockClient),
		failOn:  make(map[string]error),
	}
}

func (d *recordingDialer) dial(spec *connectSpec) (olric.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.specs = append(d.specs, spec)
	if err, ok := d.failOn[spec.name]; ok {
		return nil, err
	}
	client := newMockClient()
	d.clients[spec.name] = client
	return client, nil
}

func (d *recordingDialer) attempts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.specs)
}
