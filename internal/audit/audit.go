package audit

import (
	"context"

	"github.com/dropDatabas3/accessd/internal/observability/logger"
)

// Severidades del event log.
const (
	SeverityDebug   = "DEBUG"
	SeverityWarning = "WARNING"
	SeverityError   = "ERROR"
)

// Log emite un evento estructurado de auditoría por el logger.
func Log(ctx context.Context, severity, auditType string, fields map[string]any) {
	l := logger.From(ctx).Named("audit").With(
		logger.Any("severity", severity),
		logger.Any("audit_type", auditType),
	)
	for k, v := range fields {
		l = l.With(logger.Any(k, v))
	}
	l.Info("audit event")
}
