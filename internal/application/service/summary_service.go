package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sangkips/pedidos-api/internal/domain/entity"
	"github.com/sangkips/pedidos-api/internal/domain/repository"
	"github.com/sangkips/pedidos-api/pkg/apperror"
	"github.com/sangkips/pedidos-api/pkg/metrics"
	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// SummaryService stores and re-aggregates saved summaries
type SummaryService struct {
	summaryRepo repository.SummaryRepository
	metrics     *metrics.Metrics
	log         *zap.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(summaryRepo repository.SummaryRepository, m *metrics.Metrics, log *zap.Logger) *SummaryService {
	return &SummaryService{summaryRepo: summaryRepo, metrics: m, log: log}
}

// SaveSummary stores payload as a new immutable summary
func (s *SummaryService) SaveSummary(ctx context.Context, userID uuid.UUID, payload orderview.SavedSummary) (*orderview.SavedSummary, error) {
	summary := entity.NewSummary(payload, userID)
	if err := s.summaryRepo.Create(ctx, summary); err != nil {
		return nil, apperror.NewInternalError("Failed to save summary", err)
	}
	s.metrics.SummarySaved()
	s.log.Info("summary saved",
		zap.String("summary_id", summary.ID.String()),
		zap.Int("details", len(summary.Details)),
	)

	saved := summary.Saved()
	return &saved, nil
}

// ListSummaries returns every stored summary, newest first
func (s *SummaryService) ListSummaries(ctx context.Context) ([]orderview.SavedSummary, error) {
	summaries, err := s.summaryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to list summaries", err)
	}
	out := make([]orderview.SavedSummary, 0, len(summaries))
	for i := range summaries {
		out = append(out, summaries[i].Saved())
	}
	return out, nil
}

// GetSummary gets a summary by ID
func (s *SummaryService) GetSummary(ctx context.Context, id uuid.UUID) (*orderview.SavedSummary, error) {
	summary, err := s.summaryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewInternalError("Failed to load summary", err)
	}
	if summary == nil {
		return nil, apperror.NewNotFoundError("Resumen")
	}
	saved := summary.Saved()
	return &saved, nil
}

// DeleteSummary removes a summary with its details
func (s *SummaryService) DeleteSummary(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSummary(ctx, id); err != nil {
		return err
	}
	if err := s.summaryRepo.Delete(ctx, id); err != nil {
		return apperror.NewInternalError("Failed to delete summary", err)
	}
	s.log.Info("summary deleted", zap.String("summary_id", id.String()))
	return nil
}

// ProfitReport builds the cross-batch profit table over every summary
func (s *SummaryService) ProfitReport(ctx context.Context) (*orderview.ProfitReport, error) {
	summaries, err := s.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	report := orderview.ProfitTable(summaries)
	return &report, nil
}
