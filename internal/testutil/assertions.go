// Package testutil provides common test utilities and assertions for boundary tests
package testutil

import (
	"encoding/json"
	"fmt"
	"testing"

	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/values"
	"github.com/liangz0707/FirstEngine/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FloatTolerance is the default tolerance for float comparisons.
const FloatTolerance = 1e-9

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}

// AssertFloatNear asserts that two floats differ by at most FloatTolerance
func AssertFloatNear(t *testing.T, expected, actual float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, expected, actual, FloatTolerance, msgAndArgs...)
}

// AssertVectorNear asserts component-wise closeness of two vectors
func AssertVectorNear(t *testing.T, expected, actual native.Vector3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, FloatTolerance, msgAndArgs...)
	assert.InDelta(t, expected.Y, actual.Y, FloatTolerance, msgAndArgs...)
	assert.InDelta(t, expected.Z, actual.Z, FloatTolerance, msgAndArgs...)
}

// AssertValue asserts structural equality of two boundary values
func AssertValue(t *testing.T, expected, actual values.Value, msgAndArgs ...interface{}) {
	t.Helper()
	if !values.Equal(expected, actual) {
		assert.Fail(t, fmt.Sprintf("values differ\nexpected: %s\nactual:   %s", expected, actual), msgAndArgs...)
	}
}

// RequireErrorType requires err to be non-nil and to report the given
// ErrorDetail type (e.g. bterrors.TypeInvalidArgument)
func RequireErrorType(t *testing.T, err error, errType string, msgAndArgs ...interface{}) *bterrors.ErrorDetail {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	detail := bterrors.ToErrorDetail(err)
	require.Equal(t, errType, detail.Type, "error: %v", err)
	return detail
}

// RequireArgumentError requires err to be an *ArgumentError for the given
// argument position and returns it
func RequireArgumentError(t *testing.T, err error, index int, msgAndArgs ...interface{}) *bterrors.ArgumentError {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	var argErr *bterrors.ArgumentError
	require.ErrorAs(t, err, &argErr, msgAndArgs...)
	require.Equal(t, index, argErr.Index, "error: %v", err)
	return argErr
}
