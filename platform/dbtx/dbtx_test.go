package dbtx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrySerializable_SucceedsAfterConflicts(t *testing.T) {
	attempts := 0
	err := RetrySerializable(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return ErrSerializationFailure
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetrySerializable_ExhaustsAndSurfacesConflict(t *testing.T) {
	attempts := 0
	err := RetrySerializable(context.Background(), func() error {
		attempts++
		return ErrSerializationFailure
	})
	assert.ErrorIs(t, err, ErrSerializationFailure)
	assert.Equal(t, len(RetryPolicy), attempts)
}

func TestRetrySerializable_NonConflictErrorStopsImmediately(t *testing.T) {
	boom := errors.New("not a conflict")
	attempts := 0
	err := RetrySerializable(context.Background(), func() error {
		attempts++
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, attempts)
}
