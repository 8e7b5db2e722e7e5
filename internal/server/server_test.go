package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/startrend/internal/errors"
	"github.com/rohankatakam/startrend/internal/logging"
	"github.com/rohankatakam/startrend/internal/models"
)

type fakeService struct {
	resp *models.SearchResponse
	err  error
	got  []models.SearchRequest
}

func (f *fakeService) Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	f.got = append(f.got, req)
	return f.resp, f.err
}

func newTestServer(svc SearchService, origins ...string) http.Handler {
	return New(svc, Options{Logger: logging.Discard(), AllowedOrigins: origins}).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSearch_PassesQueryParameters(t *testing.T) {
	svc := &fakeService{resp: &models.SearchResponse{
		BatchID: "b-1",
		Results: []models.EnrichedResult{{Repository: models.Repository{FullName: "a/a"}, IncreasedStars: 10, Status: models.StatusComplete}},
	}}

	rec := get(t, newTestServer(svc), "/api/search?name=react&language=Go&start_date=2026-10-01&end_date=2026-10-10&min_stars=50&min_increased_stars=5")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.got, 1)
	assert.Equal(t, models.SearchRequest{
		Name:              "react",
		Language:          "Go",
		StartDate:         "2026-10-01",
		EndDate:           "2026-10-10",
		MinStars:          50,
		MinIncreasedStars: 5,
	}, svc.got[0])

	var body models.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "b-1", body.BatchID)
	require.Len(t, body.Results, 1)
	assert.Equal(t, 10, body.Results[0].IncreasedStars)
}

func TestSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", errors.ValidationError("start_date must be a date in YYYY-MM-DD form"), http.StatusBadRequest, "invalid_request", "start_date must be a date in YYYY-MM-DD form"},
		{"search failure", errors.SearchFailure(fmt.Errorf("boom"), ""), http.StatusBadGateway, "search_failed", "Failed to fetch repositories"},
		{"unreachable upstream", errors.SearchFailure(errors.NetworkError(fmt.Errorf("dial tcp: connection refused"), "GitHub API unreachable"), "GitHub API is unreachable"), http.StatusBadGateway, "upstream_unreachable", "GitHub API is unreachable"},
		{"wrapped validation", fmt.Errorf("search: %w", errors.ValidationError("end_date is before start_date")), http.StatusBadRequest, "invalid_request", "end_date is before start_date"},
		{"unexpected", fmt.Errorf("nil pointer"), http.StatusInternalServerError, "internal", "nil pointer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(&fakeService{err: tt.err}), "/api/search")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantMsg, body.Error)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestSearch_NonNumericParameter(t *testing.T) {
	svc := &fakeService{}
	rec := get(t, newTestServer(svc), "/api/search?min_stars=lots")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "min_stars must be an integer")
	assert.Empty(t, svc.got)
}

func TestLanguages(t *testing.T) {
	rec := get(t, newTestServer(&fakeService{}), "/api/languages")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["languages"], "Go")
	assert.Contains(t, body["languages"], "TypeScript")
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(&fakeService{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestServer(&fakeService{}), "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	h := newTestServer(&fakeService{}, "https://example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNew_Defaults(t *testing.T) {
	s := New(&fakeService{}, Options{})
	assert.Equal(t, ":8080", s.Addr())
	assert.NotNil(t, s.Handler())
}
