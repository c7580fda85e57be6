package directory

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectmembers/internal/logger"
)

func newTestRouter(fetcher *fakeFetcher, opts Options) http.Handler {
	return NewHandler(NewService(fetcher, opts)).Router()
}

func do(t *testing.T, h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlePageRendersTable(t *testing.T) {
	router := newTestRouter(&fakeFetcher{members: makeMembers(12)}, Options{})

	rr := do(t, router, http.MethodGet, "/?page=2", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Equal(t, 2, strings.Count(body, "<tr data-id="))
	assert.Contains(t, body, "User 11")
}

func TestHandlePageFetchFailure(t *testing.T) {
	router := newTestRouter(&fakeFetcher{err: &FetchError{Op: "GET", Err: errors.New("status 500")}}, Options{})

	rr := do(t, router, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), FailureMessage)
	assert.NotContains(t, rr.Body.String(), "<table")
}

func TestHandleListJSON(t *testing.T) {
	router := newTestRouter(&fakeFetcher{members: makeMembers(30)}, Options{})

	rr := do(t, router, http.MethodGet, "/api/members?role=Admin", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp listResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, PageSize, resp.PageSize)
	assert.Equal(t, "Admin", resp.Role)
	assert.False(t, resp.HasNext)
	for _, m := range resp.Items {
		assert.Equal(t, RoleAdmin, m.Role)
		assert.Equal(t, 0, m.ID%4)
	}
}

func TestHandleListNotModified(t *testing.T) {
	router := newTestRouter(&fakeFetcher{members: makeMembers(5)}, Options{})

	first := do(t, router, http.MethodGet, "/api/members", nil)
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	second := do(t, router, http.MethodGet, "/api/members", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())

	other := do(t, router, http.MethodGet, "/api/members?q=user+1", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestHandleListFetchFailure(t *testing.T) {
	router := newTestRouter(&fakeFetcher{err: &FetchError{Op: "GET", Err: errors.New("timeout")}}, Options{})

	rr := do(t, router, http.MethodGet, "/api/members", nil)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to load users."}`, rr.Body.String())
}

func TestHandleAddIsStub(t *testing.T) {
	router := newTestRouter(&fakeFetcher{}, Options{})

	rr := do(t, router, http.MethodPost, "/api/members", nil)
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

func TestHandleRefresh(t *testing.T) {
	fetcher := &fakeFetcher{members: makeMembers(3)}
	router := newTestRouter(fetcher, Options{RefreshPerMinute: 1})

	_ = do(t, router, http.MethodGet, "/api/members", nil)

	rr := do(t, router, http.MethodPost, "/api/members/refresh", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total":3}`, rr.Body.String())
	assert.Equal(t, int32(2), fetcher.calls.Load())

	rr = do(t, router, http.MethodPost, "/api/members/refresh", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeFetcher{}, Options{})

	rr := do(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHandleHugePageIsEmpty(t *testing.T) {
	router := newTestRouter(&fakeFetcher{members: makeMembers(12)}, Options{})
	huge := strconv.Itoa(math.MaxInt/PageSize + 2)

	rr := do(t, router, http.MethodGet, "/api/members?page="+huge, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 2, resp.TotalPages)

	rr = do(t, router, http.MethodGet, "/?page="+huge, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<table")
	assert.Zero(t, strings.Count(rr.Body.String(), "<tr data-id="))
}

func TestUnknownRoleIsLoggedAndKept(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)
	logger.Initialize("debug")
	defer logger.Initialize("info")

	req := httptest.NewRequest(http.MethodGet, "/?role=Owner", nil)
	c := CriteriaFromRequest(req)

	assert.Equal(t, "Owner", c.Role)
	assert.Contains(t, buf.String(), `unknown role filter "Owner"`)

	buf.Reset()
	_ = CriteriaFromRequest(httptest.NewRequest(http.MethodGet, "/?role=Admin", nil))
	assert.NotContains(t, buf.String(), "unknown role filter")
}

func TestCriteriaFromRequest(t *testing.T) {
	cases := []struct {
		target string
		want   Criteria
	}{
		{"/", Criteria{Page: 1}},
		{"/?q=Doe&role=Admin&page=3", Criteria{Search: "Doe", Role: "Admin", Page: 3}},
		{"/?page=abc", Criteria{Page: 1}},
		{"/?page=-2", Criteria{Page: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			assert.Equal(t, tc.want, CriteriaFromRequest(req))
		})
	}
}
