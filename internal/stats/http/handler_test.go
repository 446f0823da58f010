package statshttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavola-pos/tavola-admin/internal/stats"
)

type fakeService struct {
	gotBranches []stats.Branch
	gotRange    stats.DateRange
}

func (f *fakeService) ComputeBranchStatistics(ctx context.Context, branches []stats.Branch, rng stats.DateRange) []stats.Snapshot {
	f.gotBranches = branches
	f.gotRange = rng
	snaps := make([]stats.Snapshot, len(branches))
	for i, b := range branches {
		snaps[i] = stats.Snapshot{
			BranchID:         b.ID,
			BranchName:       b.Name,
			DailySales:       decimal.NewFromInt(100),
			CreditSalesTotal: decimal.Zero,
			CompleteBills:    2,
		}
	}
	return snaps
}

type fakeDirectory struct {
	branches []stats.Branch
	err      error
}

func (f *fakeDirectory) ListBranches(ctx context.Context) ([]stats.Branch, error) {
	return f.branches, f.err
}

func (f *fakeDirectory) Find(ctx context.Context, branchID string) (stats.Branch, error) {
	for _, b := range f.branches {
		if b.ID == branchID {
			return b, nil
		}
	}
	return stats.Branch{}, fmt.Errorf("branch %s not found", branchID)
}

func newTestRouter(service StatisticsService, dir BranchDirectory) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, service, dir)
	r := chi.NewRouter()
	r.Route("/api/dashboard", handler.MountRoutes)
	return r
}

func TestHandleStatistics(t *testing.T) {
	service := &fakeService{}
	dir := &fakeDirectory{branches: []stats.Branch{{ID: "1", Name: "Downtown"}, {ID: "2", Name: "Airport"}}}
	router := newTestRouter(service, dir)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/statistics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Branches []map[string]any `json:"branches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Branches, 2)
	assert.Equal(t, "Downtown", body.Branches[0]["branch_name"])
	assert.Equal(t, "100", body.Branches[0]["daily_sales"])
	assert.Len(t, service.gotBranches, 2)
}

func TestHandleStatisticsDateRange(t *testing.T) {
	service := &fakeService{}
	dir := &fakeDirectory{branches: []stats.Branch{{ID: "1"}}}
	router := newTestRouter(service, dir)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/statistics?from=2024-01-01&to=2024-01-15", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-01-01", service.gotRange.From.Format("2006-01-02"))
	assert.Equal(t, "2024-01-15", service.gotRange.To.Format("2006-01-02"))
}

func TestHandleStatisticsBadRange(t *testing.T) {
	router := newTestRouter(&fakeService{}, &fakeDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/statistics?from=15-01-2024", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/statistics?from=2024-01-15&to=2024-01-01", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStatisticsDirectoryUnavailable(t *testing.T) {
	router := newTestRouter(&fakeService{}, &fakeDirectory{err: errors.New("redis and upstream both down")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/statistics", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleBranchStatistics(t *testing.T) {
	service := &fakeService{}
	dir := &fakeDirectory{branches: []stats.Branch{{ID: "5", Name: "Riverside"}}}
	router := newTestRouter(service, dir)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/statistics/5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "Riverside", snap["branch_name"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/statistics/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
