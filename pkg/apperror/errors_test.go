package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"anoa.com/hennahub/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind string
	}{
		{fmt.Errorf("design not found: %w", apperror.ErrNotFound), http.StatusNotFound, apperror.KindNotFound},
		{fmt.Errorf("past date: %w", apperror.ErrInvalidInput), http.StatusBadRequest, apperror.KindValidation},
		{fmt.Errorf("admin only: %w", apperror.ErrForbidden), http.StatusForbidden, apperror.KindForbidden},
		{fmt.Errorf("already cancelled: %w", apperror.ErrConflict), http.StatusConflict, apperror.KindConflict},
		{apperror.Store(errors.New("connection reset")), http.StatusInternalServerError, apperror.KindStore},
		{apperror.ErrRateLimitExceeded, http.StatusTooManyRequests, apperror.KindRateLimit},
		{errors.New("boom"), http.StatusInternalServerError, apperror.KindInternal},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, apperror.MapErrorToStatus(tc.err), tc.err.Error())
		assert.Equal(t, tc.kind, apperror.Kind(tc.err), tc.err.Error())
	}
}

func TestAppErrorCodeWins(t *testing.T) {
	err := apperror.New(http.StatusTeapot, "short and stout", apperror.ErrBadRequest)
	assert.Equal(t, http.StatusTeapot, apperror.MapErrorToStatus(err))
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestFromRepo(t *testing.T) {
	assert.NoError(t, apperror.FromRepo(nil, "design"))

	err := apperror.FromRepo(gorm.ErrRecordNotFound, "design")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "design not found: resource not found", err.Error())

	cause := errors.New("disk full")
	err = apperror.FromRepo(cause, "design")
	assert.ErrorIs(t, err, apperror.ErrStore)
	assert.ErrorIs(t, err, cause)

	conflict := fmt.Errorf("already cancelled: %w", apperror.ErrConflict)
	assert.Equal(t, conflict, apperror.FromRepo(conflict, "booking"))
}
