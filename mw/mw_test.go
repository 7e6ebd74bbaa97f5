package mw_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-arrower/geogate/mw"
)

var errUseCaseFails = errors.New("some-error")

type (
	exampleCommand struct{}

	exampleRequest struct {
		IP      string `validate:"required,ipv4"`
		Country string `validate:"required,len=2"`
	}
)

var passingValidationValue = exampleRequest{IP: "8.8.8.8", Country: "DE"}

func exampleUseCaseEnsureValidated(t *testing.T) func(context.Context, exampleRequest) (string, error) {
	t.Helper()

	return func(ctx context.Context, _ exampleRequest) (string, error) {
		assert.True(t, mw.PassedValidation(ctx))

		return "result", nil
	}
}

func exampleUseCaseUEnsureValidated(t *testing.T) func(context.Context, exampleRequest) error {
	t.Helper()

	return func(ctx context.Context, _ exampleRequest) error {
		assert.True(t, mw.PassedValidation(ctx))

		return nil
	}
}

func exampleUseCaseEnsureNotCalled(t *testing.T) func(context.Context, exampleRequest) (string, error) {
	t.Helper()

	return func(context.Context, exampleRequest) (string, error) {
		assert.Fail(t, "use case should not be called if validation fails")

		return "", nil
	}
}
