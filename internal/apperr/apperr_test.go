package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:     http.StatusBadRequest,
		KindConflict:       http.StatusBadRequest,
		KindAuthentication: http.StatusUnauthorized,
		KindAuthorization:  http.StatusForbidden,
		KindNotFound:       http.StatusNotFound,
		KindStore:          http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), kind.String())
	}
}

func TestAsWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("Book not found"))
	e := As(err)
	assert.Equal(t, KindNotFound, e.Kind)
	assert.Equal(t, "Book not found", e.Message)
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindValidation))
}

func TestAsUnknownIsStore(t *testing.T) {
	cause := errors.New("socket closed")
	e := As(cause)
	assert.Equal(t, KindStore, e.Kind)
	assert.ErrorIs(t, e, cause)
}

func TestStoreUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := Store("insert", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert")
}
