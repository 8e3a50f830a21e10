package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", NewValidationError("bad")), http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{gorm.ErrDuplicatedKey, http.StatusConflict},
		{NewConflictError("floor already has a plan"), http.StatusConflict},
		{fmt.Errorf("delete block: %w", gorm.ErrForeignKeyViolated), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		_, err := ParseID(raw)
		assert.Error(t, err, raw)
	}

	opt, err := OptionalID("")
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *d)

	none, err := ParseDate("", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = ParseDate("01.03.2025", time.UTC)
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	limit, offset := Pagination("", "")
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, offset = Pagination("10", "20")
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	limit, _ = Pagination("100000", "-5")
	assert.Equal(t, 50, limit)
}
