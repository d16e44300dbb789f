package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ===== OPERATION LOGGING =====

// LogOperation picks the level from the kind of failure: client mistakes are
// warnings, misses are info and everything else is an error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID, resourceID, resourceType string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			level = slog.LevelInfo
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if validationErr, ok := err.(ValidationErrors); ok {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

func (l *ServiceLogger) Debug(ctx context.Context, msg string, args ...any) {
	if l.config.EnableDebug {
		l.logger.DebugContext(ctx, msg, args...)
	}
}

// ===== MIDDLEWARE AND HELPERS =====

// ContextualLogger wraps operations with automatic logging
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	userID    string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, userID string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		userID:    userID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceID, resourceType string, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.userID, resourceID, resourceType, time.Since(cl.startTime), err)
}

// ===== ERROR FORMATTING HELPERS =====

// FormatError describes err for API responses and logs.
func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	if validationErrs, ok := err.(ValidationErrors); ok {
		result["type"] = "validation"
		result["count"] = len(validationErrs)

		fields := make([]map[string]interface{}, len(validationErrs))
		for i, validationErr := range validationErrs {
			fields[i] = map[string]interface{}{
				"field":   validationErr.Field,
				"message": validationErr.Message,
				"value":   validationErr.Value,
			}
		}
		result["errors"] = fields
		return result
	}

	switch {
	case IsValidation(err):
		result["type"] = "validation"
	case IsNotFound(err):
		result["type"] = "not_found"
	case IsConflict(err):
		result["type"] = "conflict"
	}
	return result
}
