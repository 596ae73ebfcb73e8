package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationFailedUnwrapsIssues(t *testing.T) {
	issue1 := &UnknownType{Type: "foo", Job: "a"}
	issue2 := &MissingRequiredArg{Arg: "x", Job: "a"}
	err := &ValidationFailed{Issues: []error{issue1, issue2}}

	assert.True(t, errors.Is(err, issue1))
	assert.True(t, errors.Is(err, issue2))
	assert.Contains(t, err.Error(), "2 issue(s)")
}

func TestOperatorErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &OperatorError{Code: "requests", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "requests")
}

func TestUpstreamErrorPrefersMessageWhenPresent(t *testing.T) {
	withMessage := &UpstreamError{Status: 500, Body: `{"error":"bad"}`, Message: "bad"}
	assert.Contains(t, withMessage.Error(), "message=bad")

	withoutMessage := &UpstreamError{Status: 500, Body: "raw body"}
	assert.Contains(t, withoutMessage.Error(), "body=raw body")
}

func TestCapabilityErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &CapabilityError{Capability: "Cache", Cause: cause}
	assert.ErrorIs(t, err, cause)
}
