// Package statshttp exposes the branch statistics engine over HTTP for the
// dashboard. Branches whose pipeline failed arrive as error-flagged
// snapshots; the table always renders in full and failed rows are retryable
// one branch at a time.
package statshttp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tavola-pos/tavola-admin/internal/platform/httpx"
	"github.com/tavola-pos/tavola-admin/internal/stats"
)

const dateLayout = "2006-01-02"

// StatisticsService computes reconciled per-branch statistics.
type StatisticsService interface {
	ComputeBranchStatistics(ctx context.Context, branches []stats.Branch, rng stats.DateRange) []stats.Snapshot
}

// BranchDirectory supplies the branch list the dashboard fans out over.
type BranchDirectory interface {
	ListBranches(ctx context.Context) ([]stats.Branch, error)
	Find(ctx context.Context, branchID string) (stats.Branch, error)
}

// Handler coordinates HTTP requests for the dashboard statistics API.
type Handler struct {
	logger    *slog.Logger
	service   StatisticsService
	directory BranchDirectory
	validate  *validator.Validate
}

// NewHandler constructs the statistics HTTP handler.
func NewHandler(logger *slog.Logger, service StatisticsService, directory BranchDirectory) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		directory: directory,
		validate:  validator.New(),
	}
}

// MountRoutes attaches the dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/statistics", h.handleStatistics)
	r.Get("/statistics/{branchID}", h.handleBranchStatistics)
}

type statisticsQuery struct {
	From string `validate:"omitempty,datetime=2006-01-02"`
	To   string `validate:"omitempty,datetime=2006-01-02"`
}

type statisticsResponse struct {
	Branches []stats.Snapshot `json:"branches"`
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	branches, err := h.directory.ListBranches(r.Context())
	if err != nil {
		h.logger.Error("list branches", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Branch Directory Unavailable", "could not load the branch directory")
		return
	}

	snapshots := h.service.ComputeBranchStatistics(r.Context(), branches, rng)
	httpx.JSON(w, http.StatusOK, statisticsResponse{Branches: snapshots})
}

func (h *Handler) handleBranchStatistics(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	branch, err := h.directory.Find(r.Context(), chi.URLParam(r, "branchID"))
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Branch Not Found", err.Error())
		return
	}

	snapshots := h.service.ComputeBranchStatistics(r.Context(), []stats.Branch{branch}, rng)
	httpx.JSON(w, http.StatusOK, snapshots[0])
}

func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (stats.DateRange, bool) {
	query := statisticsQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	if err := h.validate.Struct(query); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", "from/to must be YYYY-MM-DD")
		return stats.DateRange{}, false
	}

	var rng stats.DateRange
	if query.From != "" {
		rng.From, _ = time.ParseInLocation(dateLayout, query.From, time.Local)
	}
	if query.To != "" {
		rng.To, _ = time.ParseInLocation(dateLayout, query.To, time.Local)
	}
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.To.Before(rng.From) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", "to must not precede from")
		return stats.DateRange{}, false
	}
	return rng, true
}
