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

package validation

import (
	"fmt"
	"strings"

	goset "github.com/deckarep/golang-set/v2"
)

// uniqueValidator rejects lists holding the same value twice
type uniqueValidator struct {
	fieldName string
	values    []string
}

var _ Validator = (*uniqueValidator)(nil)

// NewUniqueValidator creates a validator that fails when values contains duplicates.
// Values are compared after trimming surrounding whitespace.
func NewUniqueValidator(fieldName string, values []string) Validator {
	return &uniqueValidator{fieldName: fieldName, values: values}
}

// Validate implements validation.Validator.
func (v *uniqueValidator) Validate() error {
	seen := goset.NewThreadUnsafeSetWithSize[string](len(v.values))
	for _, value := range v.values {
		if !seen.Add(strings.TrimSpace(value)) {
			return fmt.Errorf("the [%s] contains duplicate value %q", v.fieldName, value)
		}
	}
	return nil
}
