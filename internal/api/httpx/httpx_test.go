package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/thoughts-backend/internal/models"
)

func TestFailStatuses(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{models.NewNotFoundError(models.MsgUserNotFound), http.StatusNotFound, models.MsgUserNotFound},
		{models.NewValidationError(models.MsgFriendExists), http.StatusBadRequest, models.MsgFriendExists},
		{models.NewConflictError("dup", errors.New("E11000")), http.StatusConflict, "dup"},
		{models.NewUnauthorizedError("no"), http.StatusUnauthorized, "no"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
		assert.Equal(t, tc.status, rec.Code)

		var body APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.msg, body.Message)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	}
}

func TestDecode(t *testing.T) {
	var v struct {
		A string `json:"a"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"x"}`))
	require.NoError(t, Decode(httptest.NewRecorder(), r, &v))
	assert.Equal(t, "x", v.A)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.NoError(t, Decode(httptest.NewRecorder(), r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":`))
	err := Decode(httptest.NewRecorder(), r, &v)
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))
}
