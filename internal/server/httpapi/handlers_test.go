package httpapi

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListOptions_OwnerDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/students/s1/entries", nil)

	opts, err := parseListOptions(req, true)
	require.NoError(t, err)
	assert.True(t, opts.IncludePrivate, "owners see private entries by default")
	assert.Zero(t, opts.Limit)
	assert.Zero(t, opts.Offset)
}

func TestParseListOptions_OwnerOptsOut(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/students/s1/entries?includePrivate=false", nil)

	opts, err := parseListOptions(req, true)
	require.NoError(t, err)
	assert.False(t, opts.IncludePrivate)
}

func TestParseListOptions_NonOwnerNeverPrivate(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/students/s1/entries?includePrivate=true", nil)

	opts, err := parseListOptions(req, false)
	require.NoError(t, err)
	assert.False(t, opts.IncludePrivate)
}

func TestParseListOptions_FullQuery(t *testing.T) {
	req := httptest.NewRequest("GET",
		"/api/students/s1/entries?limit=10&offset=20&startDate=2026-01-01T00:00:00Z&endDate=2026-02-01T00:00:00Z"+
			"&tags=school,sports&emotions=calm&searchQuery=practice&sortBy=word_count&sortOrder=asc", nil)

	opts, err := parseListOptions(req, true)
	require.NoError(t, err)

	assert.Equal(t, 10, opts.Limit)
	assert.Equal(t, 20, opts.Offset)
	require.NotNil(t, opts.StartDate)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), opts.StartDate.UTC())
	require.NotNil(t, opts.EndDate)
	assert.Equal(t, []string{"school", "sports"}, opts.Tags)
	assert.Equal(t, []string{"calm"}, opts.Emotions)
	assert.Equal(t, "practice", opts.SearchQuery)
	assert.Equal(t, "word_count", opts.SortBy)
	assert.Equal(t, "asc", opts.SortOrder)
}

func TestParseListOptions_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad limit", "?limit=ten"},
		{"bad offset", "?offset=-x"},
		{"bad startDate", "?startDate=yesterday"},
		{"bad endDate", "?endDate=2026-13-45"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/students/s1/entries"+tt.query, nil)
			_, err := parseListOptions(req, true)
			assert.Error(t, err)
		})
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	s := testServer(t)
	router := s.Router()

	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/journal/entries"},
		{"GET", "/api/journal/entries/e1"},
		{"PUT", "/api/journal/entries/e1"},
		{"DELETE", "/api/journal/entries/e1"},
		{"GET", "/api/students/s1/entries"},
		{"POST", "/api/journal/attachments/upload-url"},
		{"GET", "/api/journal/attachments/download-url"},
		{"POST", "/api/journal/attachments/a1/uploaded"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			req := httptest.NewRequest(rt.method, rt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, 401, rec.Code)
		})
	}
}
