package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResultHandler struct {
	BaseHandler
	results services.ResultService
	export  services.ExportService
}

func NewResultHandler(results services.ResultService, export services.ExportService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler: NewBaseHandler(logger),
		results:     results,
		export:      export,
	}
}

// GetResult returns a result with its exam, questions and category breakdown
// @Summary Review result
// @Tags results
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} models.ResultReview
// @Failure 404 {object} ErrorResponse
// @Router /results/{id} [get]
func (h *ResultHandler) GetResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	review, err := h.results.GetReview(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ListExamResults lists every result recorded for an exam
// @Summary List exam results
// @Tags results
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {array} models.ExamResult
// @Router /exams/{id}/results [get]
func (h *ResultHandler) ListExamResults(c *gin.Context) {
	examID := ParseStringIDParam(c, "id")
	if examID == "" {
		return
	}

	results, err := h.results.ListExamResults(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ListUserResults lists a user's results
// @Summary List user results
// @Tags results
// @Produce json
// @Param user_id path string true "User ID"
// @Param exam_id query string false "Exam ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Param sort_order query string false "asc or desc"
// @Success 200 {array} models.ExamResult
// @Router /users/{user_id}/results [get]
func (h *ResultHandler) ListUserResults(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	results, err := h.results.ListUserResults(c.Request.Context(), userID, parseResultFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetHistory groups a user's results by exam
// @Summary Exam history
// @Tags results
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {array} models.ExamHistory
// @Router /users/{user_id}/history [get]
func (h *ResultHandler) GetHistory(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	history, err := h.results.GetHistory(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetStatistics summarizes a user's results
// @Summary User statistics
// @Tags results
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} models.UserSummary
// @Router /users/{user_id}/statistics [get]
func (h *ResultHandler) GetStatistics(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	summary, err := h.results.GetStatistics(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportResults downloads a user's results as an XLSX workbook
// @Summary Export results
// @Tags results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param user_id path string true "User ID"
// @Success 200 {file} file
// @Router /users/{user_id}/results/export [get]
func (h *ResultHandler) ExportResults(c *gin.Context) {
	userID := ParseStringIDParam(c, "user_id")
	if userID == "" {
		return
	}

	h.LogRequest(c, "Exporting results", "target_user_id", userID)

	data, err := h.export.ExportUserResults(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="results-%s.xlsx"`, userID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func parseResultFilters(c *gin.Context) repositories.ResultFilters {
	page := parseIntQuery(c, "page", 1)
	size := parseIntQuery(c, "size", 20)
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	filters := repositories.ResultFilters{
		ExamID: c.Query("exam_id"),
		Limit:  size,
		Offset: (page - 1) * size,
	}
	if order := c.Query("sort_order"); order == "asc" || order == "desc" {
		filters.SortOrder = order
	}
	return filters
}
