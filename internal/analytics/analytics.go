// Package analytics escribe eventos de analítica durables y maneja su
// retención por fecha y por código de evento.
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/accessd/internal/observability/logger"
	"github.com/dropDatabas3/accessd/internal/store/core"
)

type Service struct {
	repo core.AnalyticsRepository
	log  *zap.Logger
}

func NewService(repo core.AnalyticsRepository) *Service {
	return &Service{repo: repo, log: logger.Named("analytics")}
}

// Add serializa el payload como JSON y persiste el evento.
func (s *Service) Add(ctx context.Context, code string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.repo.AddEvent(ctx, &core.AnalyticsEvent{
		Code:      code,
		CreatedAt: time.Now(),
		Payload:   b,
	})
}

// DeleteByDate borra los eventos con created_at <= upto.
func (s *Service) DeleteByDate(ctx context.Context, upto time.Time) (int64, error) {
	n, err := s.repo.DeleteByDate(ctx, upto)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("analytics retention", logger.Any("deleted", n))
	}
	return n, nil
}

// DeleteByCodeAndDate borra los eventos de un código con created_at <= upto.
func (s *Service) DeleteByCodeAndDate(ctx context.Context, code string, upto time.Time) (int64, error) {
	n, err := s.repo.DeleteByCodeAndDate(ctx, code, upto)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("analytics retention", logger.Code(code), logger.Any("deleted", n))
	}
	return n, nil
}
