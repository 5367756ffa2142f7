package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "photoshare/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPageParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    PageParams
		message string
	}{
		{name: "defaults", query: "", want: PageParams{Page: 1, Limit: 20}},
		{name: "explicit", query: "?page=3&limit=5", want: PageParams{Page: 3, Limit: 5}},
		{name: "zero limit kept", query: "?limit=0", want: PageParams{Page: 1, Limit: 0}},
		{name: "bad page", query: "?page=two", message: "page must be an integer"},
		{name: "bad limit", query: "?limit=1.5", message: "limit must be an integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/photos"+tt.query, nil)
			got, err := ExtractPageParams(r, 1, 20)
			if tt.message != "" {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, pkgerrors.StatusOf(err))
				assert.Equal(t, tt.message, pkgerrors.GetAppError(err).Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageParams_Offset(t *testing.T) {
	assert.Equal(t, 0, PageParams{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, PageParams{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, PageParams{Page: 3, Limit: 0}.Offset())
}

func TestParseJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes", func(t *testing.T) {
		var p payload
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ada"}`))
		require.NoError(t, ParseJSONBody(httptest.NewRecorder(), r, &p, DefaultMaxBodyBytes))
		assert.Equal(t, "ada", p.Name)
	})

	t.Run("empty body is allowed", func(t *testing.T) {
		var p payload
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		require.NoError(t, ParseJSONBody(httptest.NewRecorder(), r, &p, DefaultMaxBodyBytes))
		assert.Empty(t, p.Name)
	})

	t.Run("malformed", func(t *testing.T) {
		var p payload
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		err := ParseJSONBody(httptest.NewRecorder(), r, &p, DefaultMaxBodyBytes)
		assert.Equal(t, "Invalid request body", pkgerrors.GetAppError(err).Message)
	})

	t.Run("too large", func(t *testing.T) {
		var p payload
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("a", 64)+`"}`))
		err := ParseJSONBody(httptest.NewRecorder(), r, &p, 16)
		assert.Equal(t, "Request body is too large", pkgerrors.GetAppError(err).Message)
	})
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]int{"likes": 2})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"likes":2}`, rec.Body.String())
}
