package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsClassAndCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(ErrUnavailable, "InsertSale", cause)

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrConstraint)
	assert.True(t, Retryable(err))
	assert.True(t, Classified(err))
	assert.Equal(t, "InsertSale: store unavailable: dial tcp: connection refused", err.Error())

	wrapped := fmt.Errorf("complete sale: %w", err)
	assert.Equal(t, ErrUnavailable, Kind(wrapped))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(ErrConstraint, "op", nil))
}

func TestNewWithoutCause(t *testing.T) {
	err := New(ErrNotFound, "GetProduct")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "GetProduct: record not found", err.Error())
	assert.False(t, Retryable(err))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(fmt.Errorf("call: %w", context.Canceled)))
	assert.False(t, IsTransient(errors.New("syntax error")))
	assert.False(t, IsTransient(nil))
}

func TestKindUnclassified(t *testing.T) {
	assert.Nil(t, Kind(errors.New("plain")))
	assert.False(t, Classified(errors.New("plain")))
}
