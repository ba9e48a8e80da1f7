package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marathonhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title    string  `json:"title" validate:"required"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Distance string  `json:"distance" validate:"required,oneof=3k 10k"`
	Image    *string `json:"imageURL" validate:"omitempty,url"`
	Name     *string `json:"name" validate:"omitempty,min=1"`
}

func (s sampleRequest) Validate() []string { return ValidateStruct(s) }

func TestValidateStruct(t *testing.T) {
	bad := "not a url"
	empty := ""
	msgs := ValidateStruct(sampleRequest{Email: "nope", Distance: "5k", Image: &bad, Name: &empty})
	assert.ElementsMatch(t, []string{
		"title is required",
		"email must be a valid email address",
		"distance must be one of: 3k, 10k",
		"imageURL must be a valid URL",
		"name must not be empty",
	}, msgs)

	assert.Empty(t, ValidateStruct(sampleRequest{Title: "x", Distance: "3k"}))
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantSubstr string
	}{
		{name: "valid", body: `{"title":"Run","distance":"10k"}`, wantOK: true},
		{name: "unknown field", body: `{"title":"Run","distance":"10k","createdBy":"me"}`, wantSubstr: "unknown field"},
		{name: "malformed", body: `{"title":`, wantSubstr: "invalid request body"},
		{name: "violations", body: `{"distance":"10k"}`, wantSubstr: "title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			var dest sampleRequest

			ok := DecodeAndValidate(rec, req, &dest)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp APIResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantSubstr)
		})
	}
}

func TestParseListParams(t *testing.T) {
	tests := []struct {
		query   string
		want    domain.ListParams
		wantErr bool
	}{
		{query: "", want: domain.ListParams{Sort: domain.SortNewest}},
		{query: "sort=oldest", want: domain.ListParams{Sort: domain.SortOldest}},
		{query: "sort=newest&limit=5", want: domain.ListParams{Sort: domain.SortNewest, Limit: 5}},
		{query: "limit=100", want: domain.ListParams{Sort: domain.SortNewest, Limit: MaxListLimit}},
		{query: "limit=101", wantErr: true},
		{query: "limit=1000", wantErr: true},
		{query: "sort=random", wantErr: true},
		{query: "limit=0", wantErr: true},
		{query: "limit=ten", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/marathons?"+tt.query, nil)
			got, err := ParseListParams(req)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONSuccess(rec, http.StatusOK, MessageResponse{Message: "ok"})
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"message":"ok"},"error":null}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteJSONError(rec, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"data":null,"error":{"code":"forbidden","message":"forbidden"}}`, rec.Body.String())
}
