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
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shamaton/msgpack/v2"

	gerrors "github.com/tochemey/rhizome/errors"
)

const (
	// JSONFormat encodes map values as JSON documents
	JSONFormat = "json"
	// MsgpackFormat encodes map values as MessagePack
	MsgpackFormat = "msgpack"
)

// Serializer encodes the values stored in grid maps.
type Serializer interface {
	// Marshal encodes the given value
	Marshal(value any) ([]byte, error)
	// Unmarshal decodes data into the value pointed to by target
	Unmarshal(data []byte, target any) error
	// Format returns the name of the wire format
	Format() string
}

// SerializationConfig holds the serialization settings shared by every client of a provider.
type SerializationConfig struct {
	// Format is either json or msgpack. It defaults to json
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Serializer returns the Serializer matching the configured format.
// A nil configuration yields the JSON serializer.
func (c *SerializationConfig) Serializer() (Serializer, error) {
	format := JSONFormat
	if c != nil && strings.TrimSpace(c.Format) != "" {
		format = strings.ToLower(strings.TrimSpace(c.Format))
	}

	switch format {
	case JSONFormat:
		return jsonSerializer{}, nil
	case MsgpackFormat:
		return msgpackSerializer{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", gerrors.ErrUnsupportedSerialization, format)
	}
}

type jsonSerializer struct{}

var _ Serializer = jsonSerializer{}

func (jsonSerializer) Marshal(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (jsonSerializer) Unmarshal(data []byte, target any) error {
	return json.Unmarshal(data, target)
}

func (jsonSerializer) Format() string {
	return JSONFormat
}

type msgpackSerializer struct{}

var _ Serializer = msgpackSerializer{}

func (msgpackSerializer) Marshal(value any) ([]byte, error) {
	return msgpack.Marshal(value)
}

func (msgpackSerializer) Unmarshal(data []byte, target any) error {
	return msgpack.Unmarshal(data, target)
}

func (msgpackSerializer) Format() string {
	return MsgpackFormat
}
