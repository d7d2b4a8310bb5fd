package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"todoApp/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback repository.Kind
		expected repository.Kind
	}{
		{
			name:     "context canceled is unavailable",
			err:      context.Canceled,
			fallback: repository.KindInternal,
			expected: repository.KindUnavailable,
		},
		{
			name:     "wrapped deadline is unavailable",
			err:      fmt.Errorf("scan: %w", context.DeadlineExceeded),
			fallback: repository.KindThrottled,
			expected: repository.KindUnavailable,
		},
		{
			name:     "other errors keep fallback",
			err:      errors.New("boom"),
			fallback: repository.KindThrottled,
			expected: repository.KindThrottled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repository.Wrap("scan", tt.fallback, tt.err)
			assert.Equal(t, tt.expected, err.Kind)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("service: %w", repository.NewError("put", repository.KindMalformed, errors.New("bad item")))

	kind, ok := repository.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, repository.KindMalformed, kind)

	_, ok = repository.KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "store put (malformed)")
}
