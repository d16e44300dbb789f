package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", CurrentUserID(c),
		"timestamp", time.Now().Format(time.RFC3339),
	}
	fields = append(fields, additionalFields...)

	h.log(c).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	h.log(c).LogError(err, message, h.contextFields(c, additionalFields)...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	h.log(c).Warn(message, h.contextFields(c, additionalFields)...)
}

// LogDebug logs debug information with context
func (h *BaseHandler) LogDebug(c *gin.Context, message string, additionalFields ...interface{}) {
	h.log(c).Debug(message, h.contextFields(c, additionalFields)...)
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.LoggerFromContext(c, h.logger)
}

func (h *BaseHandler) contextFields(c *gin.Context, additionalFields []interface{}) []interface{} {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"user_id", CurrentUserID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	return append(fields, additionalFields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
	}

	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode)
	}

	c.JSON(statusCode, errorResp)
}

// bindJSON decodes the body into req and runs struct validation. It writes
// the 400 response itself and reports whether the handler may continue.
func (h *BaseHandler) bindJSON(c *gin.Context, req interface{}, validate func(interface{}) error) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return false
	}
	if validate == nil {
		return true
	}
	if err := validate(req); err != nil {
		h.handleServiceError(c, err)
		return false
	}
	return true
}

// handleServiceError maps service errors onto HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, validationErrors)
		return
	}

	switch {
	case services.IsValidation(err):
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", err, services.FormatError(err))
	case errors.Is(err, services.ErrExamNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Exam not found", err)
	case errors.Is(err, services.ErrResultNotFound):
		h.RespondWithError(c, http.StatusNotFound, "Result not found", err)
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, services.ErrNoQuestions):
		h.RespondWithError(c, http.StatusConflict, "Exam has no questions", err)
	case errors.Is(err, services.ErrSessionNotActive):
		h.RespondWithError(c, http.StatusConflict, "No exam in progress", err)
	case errors.Is(err, services.ErrResumeDecisionPending):
		h.RespondWithError(c, http.StatusConflict, "Resume or restart the saved session first", err)
	case errors.Is(err, services.ErrNoResumeDecision):
		h.RespondWithError(c, http.StatusConflict, "No saved session is waiting for a decision", err)
	case errors.Is(err, services.ErrNothingToSave):
		h.RespondWithError(c, http.StatusConflict, "Nothing to save", err)
	case services.IsConflict(err):
		h.RespondWithError(c, http.StatusConflict, "Conflict", err)
	case errors.Is(err, services.ErrSubmissionFailed):
		h.RespondWithError(c, http.StatusBadGateway, "Failed to submit exam. Please try again.", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
