package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tavola-pos/tavola-admin/internal/observability"
)

// Fetcher is the upstream record-fetch capability. Transport concerns such
// as URL failover live behind this interface.
type Fetcher interface {
	FetchSales(ctx context.Context, branchID string, rng DateRange) (json.RawMessage, error)
	FetchBills(ctx context.Context, branchID string, rng DateRange) (json.RawMessage, error)
	FetchOrders(ctx context.Context, branchID string) (json.RawMessage, error)
	FetchLastDayend(ctx context.Context, branchID string) (json.RawMessage, error)
}

// Service orchestrates per-branch statistics reconciliation.
type Service struct {
	fetcher      Fetcher
	logger       *slog.Logger
	metrics      *observability.Metrics
	fetchTimeout time.Duration
	now          func() time.Time
}

// NewService constructs a Service instance. metrics may be nil.
func NewService(fetcher Fetcher, logger *slog.Logger, metrics *observability.Metrics, fetchTimeout time.Duration) *Service {
	return &Service{
		fetcher:      fetcher,
		logger:       logger,
		metrics:      metrics,
		fetchTimeout: fetchTimeout,
		now:          time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ComputeBranchStatistics reconciles statistics for every branch
// concurrently and returns one snapshot per branch, in input order. A
// failing branch yields an error-flagged zeroed snapshot; it never aborts
// sibling branches or the batch.
func (s *Service) ComputeBranchStatistics(ctx context.Context, branches []Branch, rng DateRange) []Snapshot {
	runID := uuid.NewString()
	snapshots := make([]Snapshot, len(branches))

	g, gctx := errgroup.WithContext(ctx)
	for i, branch := range branches {
		g.Go(func() error {
			snapshots[i] = s.computeBranch(gctx, branch, rng, runID)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("branch statistics computed",
		slog.String("run_id", runID),
		slog.Int("branches", len(branches)))
	return snapshots
}

func (s *Service) computeBranch(ctx context.Context, branch Branch, rng DateRange, runID string) (snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("branch pipeline panic",
				slog.String("run_id", runID),
				slog.String("branch_id", branch.ID),
				slog.Any("panic", r))
			s.metrics.ObserveBranchFailure()
			snap = errorSnapshot(branch)
		}
	}()

	var (
		cutoff                        Cutoff
		sales, bills, orders          []Record
		salesErr, billsErr, ordersErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cutoff = s.resolveCutoff(gctx, branch.ID)
		return nil
	})
	g.Go(func() error {
		sales, salesErr = s.loadSource(gctx, branch.ID, SourceSales, func(c context.Context) (json.RawMessage, error) {
			return s.fetcher.FetchSales(c, branch.ID, rng)
		})
		return nil
	})
	g.Go(func() error {
		bills, billsErr = s.loadSource(gctx, branch.ID, SourceBills, func(c context.Context) (json.RawMessage, error) {
			return s.fetcher.FetchBills(c, branch.ID, rng)
		})
		return nil
	})
	g.Go(func() error {
		orders, ordersErr = s.loadSource(gctx, branch.ID, SourceOrders, func(c context.Context) (json.RawMessage, error) {
			return s.fetcher.FetchOrders(c, branch.ID)
		})
		return nil
	})
	_ = g.Wait()

	// A single unreachable source degrades to an empty list; all three
	// failing means there is nothing trustworthy to report for the branch.
	if salesErr != nil && billsErr != nil && ordersErr != nil {
		s.logger.Error("all sources unavailable for branch",
			slog.String("run_id", runID),
			slog.String("branch_id", branch.ID))
		s.metrics.ObserveBranchFailure()
		return errorSnapshot(branch)
	}

	merged := MergeSources(sales, bills, orders)
	totals := Aggregate(merged, orders, cutoff, s.now())

	return Snapshot{
		BranchID:         branch.ID,
		BranchName:       branch.Name,
		DailySales:       totals.DailySales,
		RunningOrders:    totals.RunningOrders,
		CompleteBills:    totals.CompleteBills,
		CreditSalesTotal: totals.CreditSalesTotal,
	}
}

// loadSource fetches, normalizes, maps, and branch-filters one source. A
// fetch failure is returned for outage accounting; a malformed envelope is
// recovered as an empty list.
func (s *Service) loadSource(ctx context.Context, branchID string, origin Source, fetch func(context.Context) (json.RawMessage, error)) ([]Record, error) {
	fctx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	raw, err := fetch(fctx)
	s.metrics.ObserveFetch(string(origin), err == nil)
	if err != nil {
		s.logger.Warn("upstream source unavailable",
			slog.String("branch_id", branchID),
			slog.String("source", string(origin)),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, origin, err)
	}

	rows, recognized := NormalizeEnvelope(raw)
	if !recognized {
		s.logger.Warn("malformed envelope from source",
			slog.String("branch_id", branchID),
			slog.String("source", string(origin)),
			slog.Any("error", ErrMalformedEnvelope))
		return nil, nil
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := MapRecord(row, origin)
		if !BelongsToBranch(rec, branchID) {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// resolveCutoff determines the start of the current accounting period. The
// day-end source is queried fresh on every call; any failure degrades to the
// start of the current day and never blocks statistics computation.
func (s *Service) resolveCutoff(ctx context.Context, branchID string) Cutoff {
	fctx := ctx
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	raw, err := s.fetcher.FetchLastDayend(fctx, branchID)
	s.metrics.ObserveFetch("dayend", err == nil)
	if err != nil {
		s.logger.Warn("dayend lookup failed, using start of day",
			slog.String("branch_id", branchID),
			slog.Any("error", fmt.Errorf("%w: %v", ErrDayendUnavailable, err)))
		return Cutoff{Instant: startOfDay(s.now())}
	}

	rows, _ := NormalizeEnvelope(raw)
	if closing, ok := latestClosing(rows); ok {
		return Cutoff{Instant: closing, HasDayend: true}
	}
	return Cutoff{Instant: startOfDay(s.now())}
}

func errorSnapshot(branch Branch) Snapshot {
	return Snapshot{
		BranchID:         branch.ID,
		BranchName:       branch.Name,
		DailySales:       decimal.Zero,
		CreditSalesTotal: decimal.Zero,
		Error:            true,
	}
}
