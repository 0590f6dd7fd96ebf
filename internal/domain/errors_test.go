package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"validation", Validation("address is required"), ErrValidation},
		{"forbidden", Forbidden("nope"), ErrForbidden},
		{"sentinel not found", ErrOrderNotFound, ErrNotFound},
		{"wrapped not found", fmt.Errorf("%w: abc", ErrProductNotFound), ErrNotFound},
		{"conflict", ErrDuplicateProduct, ErrConflict},
		{"taken email is a validation error", ErrEmailTaken, ErrValidation},
		{"unauthorized", Unauthorized("invalid token"), ErrUnauthorized},
		{"internal", errors.New("connection reset"), nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWrappedSentinelKeepsIdentity(t *testing.T) {
	err := fmt.Errorf("%w: p-1", ErrProductNotFound)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, "product not found: p-1", err.Error())
}
