package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/SscSPs/billing_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// AuthorizeOwner checks that the requesting user owns the resource.
func (s *BaseService) AuthorizeOwner(ctx context.Context, userID, ownerID, resource, resourceID string) error {
	if userID == ownerID {
		return nil
	}
	err := fmt.Errorf("%w: %s %s does not belong to the requesting user", apperrors.ErrForbidden, resource, resourceID)
	s.LogError(ctx, err, "User not authorized to access resource",
		slog.String("user_id", userID),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID))
	return err
}

// newAuditFields stamps creation and update audit data for a new entity.
func newAuditFields(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
