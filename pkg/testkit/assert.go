package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertAllStubsCalled fails the test if any registered stub never matched.
func AssertAllStubsCalled(t *testing.T, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.AllCalled() {
		assert.NoError(t, err)
	}
}

// AssertJSONBody compares a recorded request body against expected JSON,
// ignoring key order and whitespace.
func AssertJSONBody(t *testing.T, expected string, actual []byte) {
	t.Helper()
	assert.JSONEq(t, expected, string(actual))
}
