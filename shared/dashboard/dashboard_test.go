package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/aws-edge-audit/service/storage"
)

type fakeStore struct {
	storage.Service

	trendAccount string
	trendDays    int
	auditLimit   int
	findingsID   int64
	err          error
}

func (f *fakeStore) GetTrends(_ context.Context, accountID string, days int) ([]storage.TrendPoint, error) {
	f.trendAccount, f.trendDays = accountID, days
	if f.err != nil {
		return nil, f.err
	}
	return []storage.TrendPoint{{AccountID: accountID, Date: "2026-10-19", Total: 2, WAFCoverageRate: 50}}, nil
}

func (f *fakeStore) GetRecentAudits(_ context.Context, _ string, limit int) ([]storage.AuditSummary, error) {
	f.auditLimit = limit
	return nil, f.err
}

func (f *fakeStore) ListFindings(_ context.Context, auditID int64) ([]storage.FindingSnapshot, error) {
	f.findingsID = auditID
	return []storage.FindingSnapshot{{FindingHash: "abc", Severity: "HIGH", Status: storage.StatusOpen}}, nil
}

func serve(t *testing.T, store storage.Service, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(zerolog.New(io.Discard), store, "111111111111")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexPage(t *testing.T) {
	rec := serve(t, &fakeStore{}, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "/api/trends")
}

func TestTrendsUsesDefaultsAndOverrides(t *testing.T) {
	store := &fakeStore{}

	rec := serve(t, store, "/api/trends")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "111111111111", store.trendAccount)
	assert.Equal(t, DefaultTrendDays, store.trendDays)

	var points []storage.TrendPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 1)
	assert.Equal(t, 50.0, points[0].WAFCoverageRate)

	rec = serve(t, store, "/api/trends?days=7&account_id=222222222222")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "222222222222", store.trendAccount)
	assert.Equal(t, 7, store.trendDays)

	rec = serve(t, store, "/api/trends?days=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuditsReturnsEmptyArray(t *testing.T) {
	store := &fakeStore{}
	rec := serve(t, store, "/api/audits?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, store.auditLimit)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestFindingsRequiresAuditID(t *testing.T) {
	store := &fakeStore{}

	assert.Equal(t, http.StatusBadRequest, serve(t, store, "/api/findings").Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, store, "/api/findings?audit_id=abc").Code)

	rec := serve(t, store, "/api/findings?audit_id=42")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), store.findingsID)
	assert.Contains(t, rec.Body.String(), `"finding_hash":"abc"`)
}

func TestStoreErrorIsInternalServerError(t *testing.T) {
	rec := serve(t, &fakeStore{err: errors.New("db locked")}, "/api/trends")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "db locked")
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Serve(ctx, zerolog.New(io.Discard), "127.0.0.1:0", http.NotFoundHandler())
	assert.NoError(t, err)
}
