package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
	"github.com/DanNano/FFQueryAnalyzer/internal/service"
	"github.com/DanNano/FFQueryAnalyzer/pkg/response"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name     string
		in       error
		wantCode int
		wantErr  string
		wantMsg  string
	}{
		{"invalid_input", service.NewInvalidInputError([]service.FieldError{{Field: "year", Message: "bad"}}), 400, "invalid_input", response.MsgInvalidInput},
		{"not_found", repository.ErrNotFound, 404, "not_found", response.MsgPlayerNotFound},
		{"unavailable", fmt.Errorf("%w: dial tcp", repository.ErrUnavailable), 500, "internal_error", response.MsgDatabase},
		{"query canceled", repository.ErrQueryCanceled, 500, "internal_error", response.MsgDatabase},
		{"internal", errors.New("boom"), 500, "internal_error", response.MsgDatabase},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantErr, payload.Error)
			assert.Equal(t, tc.wantMsg, payload.Message)
			if tc.wantErr == "invalid_input" {
				assert.Len(t, payload.FieldErrors, 1)
			} else {
				assert.Empty(t, payload.FieldErrors)
			}
		})
	}

	code, _ := response.MapError(nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestWriteError_HidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	response.WriteError(c, errors.New(`pq: relation "play" does not exist`))

	assert.True(t, c.IsAborted())
	require.Len(t, c.Errors, 1)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Error connecting to the database", body["message"])
	assert.NotContains(t, body, "field_errors")
}
