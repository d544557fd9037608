package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/pedidos-api/internal/infrastructure/cache"
	"github.com/sangkips/pedidos-api/pkg/metrics"
	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// ReceiptSettings configures receipt rendering and the share link
type ReceiptSettings struct {
	Formatter    orderview.ReceiptFormatter
	ShareBaseURL string
	SharePhone   string
}

// DashboardService runs the aggregation engine over the stored orders
type DashboardService struct {
	orders    *OrderService
	summaries *SummaryService
	cache     cache.ViewCache
	cacheTTL  time.Duration
	receipt   ReceiptSettings
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// NewDashboardService creates a new dashboard service. A nil cache disables
// memoization.
func NewDashboardService(
	orders *OrderService,
	summaries *SummaryService,
	viewCache cache.ViewCache,
	cacheTTL time.Duration,
	receipt ReceiptSettings,
	m *metrics.Metrics,
	log *zap.Logger,
) *DashboardService {
	if viewCache == nil {
		viewCache = cache.NoopViewCache{}
	}
	return &DashboardService{
		orders:    orders,
		summaries: summaries,
		cache:     viewCache,
		cacheTTL:  cacheTTL,
		receipt:   receipt,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// View computes the dashboard for state. Results are memoized by the
// fingerprint of the records and the state; cache failures only cost a
// recomputation.
func (s *DashboardService) View(ctx context.Context, state orderview.ViewState) (*orderview.View, error) {
	records, err := s.orders.Records(ctx)
	if err != nil {
		return nil, err
	}

	key := strconv.FormatUint(orderview.Fingerprint(records, state), 16)
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("view cache read failed", zap.Error(err))
	}
	s.metrics.CacheHit(ok)
	if ok {
		return cached, nil
	}

	view := orderview.Compute(records, state)
	if err := s.cache.Set(ctx, key, &view, s.cacheTTL); err != nil {
		s.log.Warn("view cache write failed", zap.Error(err))
	}
	return &view, nil
}

// Receipt is the shareable text for the current view
type Receipt struct {
	Text     string           `json:"texto"`
	ShareURL string           `json:"url"`
	Totals   orderview.Totals `json:"totales"`
}

// Receipt renders the receipt of the visible set of state
func (s *DashboardService) Receipt(ctx context.Context, state orderview.ViewState) (*Receipt, error) {
	view, err := s.View(ctx, state)
	if err != nil {
		return nil, err
	}

	text := s.receipt.Formatter.Format(view.Visible, view.Totals, state.Adjustments, s.now())
	return &Receipt{
		Text:     text,
		ShareURL: orderview.ShareURL(s.receipt.ShareBaseURL, s.receipt.SharePhone, text),
		Totals:   view.Totals,
	}, nil
}

// SaveCurrentSummary stores the summary of the visible set of state
func (s *DashboardService) SaveCurrentSummary(ctx context.Context, userID uuid.UUID, state orderview.ViewState) (*orderview.SavedSummary, error) {
	view, err := s.View(ctx, state)
	if err != nil {
		return nil, err
	}
	payload := orderview.BuildSummaryPayload(view.Visible, view.Totals, state.Adjustments)
	return s.summaries.SaveSummary(ctx, userID, payload)
}
