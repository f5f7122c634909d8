package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/emergency_action_plan/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	planService service.PlanService
	logger      *logrus.Logger
	validate    *validator.Validate
	now         func() time.Time
}

func NewHandler(planService service.PlanService, logger *logrus.Logger) *Handler {
	return &Handler{
		planService: planService,
		logger:      logger,
		validate:    newValidator(),
		now:         time.Now,
	}
}

// @Summary Service index
// @Description Reports that the API is up
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *Handler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Emergency action plan API is running"})
}

// @Summary Generate an action plan
// @Description Runs the hospital-assignment simulation for an incident and derives the action plan from its output.
// @Tags Plans
// @Accept json
// @Produce json
// @Param incident body GeneratePlanRequest true "Incident parameters"
// @Success 200 {object} map[string]interface{} "Assignment record with action_plan, request_id, timestamp and incident_summary"
// @Failure 400 {object} ErrorResponse "Malformed body or validation error"
// @Failure 500 {object} ErrorResponse "Simulation or persistence failure"
// @Router /generate-plan [post]
func (h *Handler) generatePlan(c *gin.Context) {
	requestID := uuid.NewString()
	log := h.logger.WithField("method", "generatePlan").WithField("request_id", requestID)

	var input GeneratePlanRequest
	var mismatched []string
	if err := c.ShouldBindBodyWith(&input, binding.JSON); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			log.WithError(err).Warn("Failed to bind JSON")
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", RequestID: requestID})
			return
		}
		if body, ok := c.Get(gin.BodyBytesKey); ok {
			if raw, ok := body.([]byte); ok {
				mismatched = typeMismatches(raw)
			}
		}
	}

	if details := validationDetails(h.validate, input, mismatched); len(details) > 0 {
		log.WithField("details", details).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: details, RequestID: requestID})
		return
	}

	req := DTOToIncidentRequest(input)
	log.WithFields(logrus.Fields{
		"location":          req.Location,
		"critical_patients": req.CriticalPatients,
		"stable_patients":   req.StablePatients,
		"scenario":          req.Scenario,
	}).Info("Generating action plan")

	record, err := h.planService.GeneratePlan(c.Request.Context(), requestID, req)
	if err != nil {
		log.WithError(err).WithField("upstream", service.IsUpstreamError(err)).Error("Failed to generate plan in service")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: generateErrorMessage(err), RequestID: requestID})
		return
	}

	c.JSON(http.StatusOK, BuildPlanResponse(record, requestID, h.now(), req))
}

// generateErrorMessage подбирает сообщение для клиента по причине ошибки
func generateErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrSimulationFailed):
		return "Backend simulation script failed to execute."
	case errors.Is(err, service.ErrArtifactMissing):
		return "Simulation ran but output file was not found."
	case errors.Is(err, service.ErrArtifactInvalid):
		return "Simulation output could not be parsed."
	case errors.Is(err, service.ErrPersistence):
		return "Action plan could not be saved."
	default:
		return "An internal server error occurred."
	}
}

// @Summary Get the current plan
// @Description Returns the most recently generated action plan record as stored
// @Tags Plans
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse "No plan generated yet"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /plans/current [get]
func (h *Handler) currentPlan(c *gin.Context) {
	log := h.logger.WithField("method", "currentPlan")

	data, err := h.planService.CurrentPlan(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "no plan has been generated yet"})
			return
		}
		log.WithError(err).Error("Failed to get current plan from service")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// @Summary List plan history
// @Description Returns history keys, newest first
// @Tags Plans
// @Produce json
// @Param limit query int false "Number of keys to return" default(20)
// @Success 200 {object} HistoryListResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /plans/history [get]
func (h *Handler) listHistory(c *gin.Context) {
	log := h.logger.WithField("method", "listHistory")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	keys, err := h.planService.ListHistory(c.Request.Context(), limit)
	if err != nil {
		log.WithError(err).Error("Failed to list history from service")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	if keys == nil {
		keys = []string{}
	}

	c.JSON(http.StatusOK, HistoryListResponse{Keys: keys})
}

// @Summary Get a history record
// @Description Returns the plan record stored under the given history key
// @Tags Plans
// @Produce json
// @Param key path string true "History key, e.g. 2024-05-01_10-30-00"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse "Invalid history key"
// @Failure 404 {object} ErrorResponse "History record not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /plans/history/{key} [get]
func (h *Handler) historyPlan(c *gin.Context) {
	key := c.Param("key")
	log := h.logger.WithField("method", "historyPlan").WithField("history_key", key)

	data, err := h.planService.HistoryPlan(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidHistoryKey):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid history key"})
		case errors.Is(err, service.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "history record not found"})
		default:
			log.WithError(err).Error("Failed to get history record from service")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
