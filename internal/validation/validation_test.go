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
	"testing"

	"github.com/stretchr/testify/suite"
)

type validationTestSuite struct {
	suite.Suite
}

func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain without option", func() {
		chain := New()
		s.Assert().NotNil(chain)
		s.Assert().False(chain.failFast)
	})
	s.Run("new chain with options", func() {
		chain := New(FailFast())
		s.Assert().True(chain.failFast)
		chain2 := New(AllErrors())
		s.Assert().False(chain2.failFast)
	})
}

func (s *validationTestSuite) TestAddAssertion() {
	chain := New()
	s.Assert().Empty(chain.validators)
	chain.AddAssertion(true, "")
	s.Assert().Len(chain.validators, 1)
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with single validator", func() {
		chain := New().AddValidator(NewEmptyStringValidator("field", ""))
		err := chain.Validate()
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with fail fast", func() {
		chain := New(FailFast()).
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "second")
		s.Assert().EqualError(chain.Validate(), "the [field] is required")
	})
	s.Run("with all errors", func() {
		chain := New(AllErrors()).
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "second")
		err := chain.Validate()
		s.Assert().EqualError(err, "the [field] is required; second")
		s.Assert().EqualError(chain.Validate(), err.Error())
	})
	s.Run("with no violation", func() {
		chain := New().
			AddValidator(NewEmptyStringValidator("field", "value")).
			AddAssertion(true, "never")
		s.Assert().NoError(chain.Validate())
	})
}

func (s *validationTestSuite) TestTCPAddressValidator() {
	s.Assert().NoError(NewTCPAddressValidator("127.0.0.1:3222").Validate())
	s.Assert().NoError(NewTCPAddressValidator(" 10.0.0.1:5701 ").Validate())
	s.Assert().NoError(NewTCPAddressValidator("127.0.0.1:0").Validate())
	s.Assert().Error(NewTCPAddressValidator("127.0.0.1:-1").Validate())
	s.Assert().Error(NewTCPAddressValidator("127.0.0.1:655387").Validate())
	s.Assert().Error(NewTCPAddressValidator(":3222").Validate())
	s.Assert().Error(NewTCPAddressValidator("localhost").Validate())
	s.Assert().Error(NewTCPAddressValidator("localhost:port").Validate())
}

func (s *validationTestSuite) TestUniqueValidator() {
	s.Assert().NoError(NewUniqueValidator("instances", []string{"a:1", "b:1"}).Validate())
	s.Assert().NoError(NewUniqueValidator("instances", nil).Validate())
	err := NewUniqueValidator("instances", []string{"a:1", " a:1"}).Validate()
	s.Assert().EqualError(err, `the [instances] contains duplicate value " a:1"`)
}
