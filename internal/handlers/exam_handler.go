package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/scoring"
	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ExamResponse adds display fields to an exam.
type ExamResponse struct {
	models.Exam
	DurationLabel string `json:"durationLabel"`
}

type ExamHandler struct {
	BaseHandler
	catalog services.CatalogService
}

func NewExamHandler(catalog services.CatalogService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		catalog:     catalog,
	}
}

// ListExams lists the exam catalog
// @Summary List exams
// @Tags exams
// @Produce json
// @Param category query string false "Category"
// @Param difficulty query string false "easy, medium or hard"
// @Param search query string false "Matches title or description"
// @Success 200 {array} models.Exam
// @Failure 400 {object} ErrorResponse
// @Router /exams [get]
func (h *ExamHandler) ListExams(c *gin.Context) {
	var filters models.ExamFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err, err.Error())
		return
	}

	exams, err := h.catalog.ListExams(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

// GetExam returns one exam
// @Summary Get exam
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} ExamResponse
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id} [get]
func (h *ExamHandler) GetExam(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	exam, err := h.catalog.GetExam(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExamResponse{Exam: *exam, DurationLabel: scoring.FormatDuration(exam.Duration)})
}

// GetExamQuestions returns the exam's questions in presentation order
// @Summary Get exam questions
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {array} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/questions [get]
func (h *ExamHandler) GetExamQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	questions, err := h.catalog.GetExamQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}
