package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	sessions  *services.SessionService
	validator *validator.Validator
}

type SetAnswerRequest struct {
	Answer json.RawMessage `json:"answer"`
}

type GoToRequest struct {
	Index *int `json:"index" validate:"required"`
}

type EnterSessionResponse struct {
	Outcome services.EnterOutcome `json:"outcome"`
	View    services.SessionView  `json:"view"`
}

type InterruptResponse struct {
	Saved bool                 `json:"saved"`
	View  services.SessionView `json:"view"`
}

type SubmitResponse struct {
	Result *models.ExamResult   `json:"result"`
	View   services.SessionView `json:"view"`
}

func NewSessionHandler(sessions *services.SessionService, validator *validator.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		sessions:    sessions,
		validator:   validator,
	}
}

func (h *SessionHandler) controller(c *gin.Context) *services.SessionController {
	return h.sessions.Controller(c.Request.Context(), CurrentUserID(c))
}

// Enter opens an exam for the current user
// @Summary Enter exam session
// @Description Starts the exam, or reports that a saved session awaits a resume decision
// @Tags sessions
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} EnterSessionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /exams/{id}/session [post]
func (h *SessionHandler) Enter(c *gin.Context) {
	examID := ParseStringIDParam(c, "id")
	if examID == "" {
		return
	}

	h.LogRequest(c, "Entering exam session", "exam_id", examID)

	ctrl := h.controller(c)
	outcome, err := ctrl.Enter(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, EnterSessionResponse{Outcome: outcome, View: ctrl.View()})
}

// Resume continues the saved session found on Enter
// @Summary Resume saved session
// @Tags sessions
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} services.SessionView
// @Failure 409 {object} ErrorResponse
// @Router /exams/{id}/session/resume [post]
func (h *SessionHandler) Resume(c *gin.Context) {
	examID := ParseStringIDParam(c, "id")
	if examID == "" {
		return
	}

	h.LogRequest(c, "Resuming saved session", "exam_id", examID)
	h.act(c, func(ctrl *services.SessionController) error {
		return ctrl.Resume(c.Request.Context(), examID)
	})
}

// Restart discards the saved session found on Enter and starts over
// @Summary Start exam fresh
// @Tags sessions
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} services.SessionView
// @Failure 409 {object} ErrorResponse
// @Router /exams/{id}/session/restart [post]
func (h *SessionHandler) Restart(c *gin.Context) {
	examID := ParseStringIDParam(c, "id")
	if examID == "" {
		return
	}

	h.LogRequest(c, "Discarding saved session", "exam_id", examID)
	h.act(c, func(ctrl *services.SessionController) error {
		return ctrl.StartFresh(c.Request.Context(), examID)
	})
}

// GetSession returns what the session page renders
// @Summary Current session view
// @Tags sessions
// @Produce json
// @Success 200 {object} services.SessionView
// @Router /session [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller(c).View())
}

// SavedSessions lists the exams the user saved for later
// @Summary Saved sessions
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /session/saved [get]
func (h *SessionHandler) SavedSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"examIds": h.controller(c).SavedExams()})
}

// SetAnswer holds an answer for the current question until the next save point
// @Summary Hold answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param answer body SetAnswerRequest true "Answer value"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /session/answer [put]
func (h *SessionHandler) SetAnswer(c *gin.Context) {
	var req SetAnswerRequest
	if !h.bindJSON(c, &req, nil) {
		return
	}

	value, err := models.DecodeAnswerValue(req.Answer)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid answer value", err, err.Error())
		return
	}

	h.act(c, func(ctrl *services.SessionController) error {
		return ctrl.SetAnswer(value)
	})
}

// Next commits the held answer and advances
// @Summary Save and next
// @Tags sessions
// @Produce json
// @Success 200 {object} services.SessionView
// @Failure 409 {object} ErrorResponse
// @Router /session/next [post]
func (h *SessionHandler) Next(c *gin.Context) {
	h.act(c, func(ctrl *services.SessionController) error {
		return ctrl.SaveAndNext(c.Request.Context())
	})
}

// Previous commits the held answer and steps back
// @Summary Previous question
// @Tags sessions
// @Produce json
// @Success 200 {object} services.SessionView
// @Failure 409 {object} ErrorResponse
// @Router /session/previous [post]
func (h *SessionHandler) Previous(c *gin.Context) {
	h.act(c, func(ctrl *services.SessionController) error {
		return ctrl.Previous(c.Request.Context())
	})
}

// GoTo commits the held answer and jumps to a question
// @Summary Go to question
// @Tags sessions
// @Accept json
// @Produce json
// @Param target body GoToRequest true "Question index"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /session/goto [post]
func (h *SessionHandler) GoTo(c *gin.Context) {
	var req GoToRequest
	if !h.bindJSON(c, &req, h.validator.Validate) {
		return
	}

	h.act(c, func(ctrl *services.SessionController) error {
		return ctrl.GoTo(c.Request.Context(), *req.Index)
	})
}

// SaveForLater snapshots the attempt and leaves the exam
// @Summary Save for later
// @Tags sessions
// @Produce json
// @Success 200 {object} services.SessionView
// @Failure 409 {object} ErrorResponse
// @Router /session/save-for-later [post]
func (h *SessionHandler) SaveForLater(c *gin.Context) {
	h.LogRequest(c, "Saving session for later")
	h.act(c, func(ctrl *services.SessionController) error {
		return ctrl.SaveForLater(c.Request.Context())
	})
}

// Interrupt leaves the exam, keeping a snapshot when anything was answered
// @Summary Interrupt session
// @Tags sessions
// @Produce json
// @Success 200 {object} InterruptResponse
// @Router /session/interrupt [post]
func (h *SessionHandler) Interrupt(c *gin.Context) {
	h.LogRequest(c, "Interrupting session")

	ctrl := h.controller(c)
	saved := ctrl.Interrupt(c.Request.Context())
	c.JSON(http.StatusOK, InterruptResponse{Saved: saved, View: ctrl.View()})
}

// Submit grades and records the attempt
// @Summary Submit exam
// @Tags sessions
// @Produce json
// @Success 200 {object} SubmitResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /session/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	h.LogRequest(c, "Submitting exam")

	ctrl := h.controller(c)
	result, err := ctrl.Submit(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubmitResponse{Result: result, View: ctrl.View()})
}

// act runs op on the user's controller and answers with the resulting view.
func (h *SessionHandler) act(c *gin.Context, op func(*services.SessionController) error) {
	ctrl := h.controller(c)
	if err := op(ctrl); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}
