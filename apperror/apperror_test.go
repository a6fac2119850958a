package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("deal not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{BadRequest("x"), http.StatusBadRequest},
		{Unauthenticated("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{Conflict("x"), http.StatusConflict},
		{InvalidToken("x"), http.StatusBadRequest},
		{InvalidOrExpiredToken("x"), http.StatusBadRequest},
		{Infrastructure("x", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestPublicMessageHidesInfrastructureDetails(t *testing.T) {
	err := Infrastructure("send mail", errors.New("dial tcp: refused"))

	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Equal(t, "send mail: dial tcp: refused", err.Error())
	assert.Equal(t, "role not found", PublicMessage(NotFound("role not found")))
}
