package handler

import (
	"net/http"

	"github.com/TheCreativeLad/Spam-Detection/internal/metrics"
	"github.com/TheCreativeLad/Spam-Detection/internal/models"
	"github.com/TheCreativeLad/Spam-Detection/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	predictor *service.Predictor
	feedback  *service.FeedbackLogger
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	predictor *service.Predictor,
	feedback *service.FeedbackLogger,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		predictor: predictor,
		feedback:  feedback,
		metrics:   m,
		logger:    logger,
	}
}

// RegisterRoutes registers all routes. The engine must already have the
// HTML templates loaded.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)
	r.POST("/predict", h.Predict)
	r.POST("/feedback", h.Feedback)

	r.GET("/health", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"status": "error", "message": "Method not allowed"})
	})
}

// Home renders the landing page
func (h *Handler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

var predictStatus = map[service.OutcomeKind]struct {
	code    int
	message string
}{
	service.OutcomeSuccess:      {http.StatusOK, "Prediction successful."},
	service.OutcomeInvalidInput: {http.StatusBadRequest, "Please enter a message."},
	service.OutcomeUnavailable:  {http.StatusInternalServerError, "Model unavailable."},
	service.OutcomeFailure:      {http.StatusInternalServerError, "Prediction failed."},
}

// Predict handles POST /predict. JSON callers get a Prediction; HTML form
// posts get the rendered result page.
func (h *Handler) Predict(c *gin.Context) {
	var req models.PredictRequest
	if err := bindPredict(c, &req); err != nil {
		// an undecodable body is treated as a missing message
		h.logger.Debug("Failed to bind predict request", zap.Error(err))
		req.Message = ""
	}

	outcome := h.predictor.Predict(c.Request.Context(), req.Message)
	status := predictStatus[outcome.Kind]

	label := ""
	if outcome.Kind == service.OutcomeSuccess {
		label = string(outcome.Label)
	}
	h.metrics.Predictions.WithLabelValues(outcomeName(outcome.Kind), label).Inc()

	if isFormPost(c) {
		page := gin.H{"prediction": status.message, "original_message": req.Message}
		if outcome.Kind == service.OutcomeSuccess {
			page["prediction"] = outcome.Label.Verdict()
		}
		c.HTML(status.code, "result.html", page)
		return
	}

	c.JSON(status.code, models.Prediction{
		Prediction: outcome.Label,
		Message:    status.message,
		Error:      outcome.Kind != service.OutcomeSuccess,
	})
}

// Feedback handles POST /feedback
func (h *Handler) Feedback(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Failed to bind feedback request", zap.Error(err))
		req = models.FeedbackRequest{}
	}

	outcome := h.feedback.Submit(c.Request.Context(), req)

	code, status := http.StatusOK, "success"
	switch outcome.Kind {
	case service.OutcomeInvalidInput:
		code, status = http.StatusBadRequest, "error"
	case service.OutcomeUnavailable:
		status = "warning"
	case service.OutcomeFailure:
		code, status = http.StatusInternalServerError, "error"
	}
	h.metrics.Feedback.WithLabelValues(status).Inc()

	c.JSON(code, models.FeedbackResponse{
		Status:  status,
		Message: outcome.Message,
	})
}

// HealthCheck returns service health. Degraded components are reported but
// do not fail the check.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        "spam-detector",
		"classifier":     availability(h.predictor.Available()),
		"feedback_store": availability(h.feedback.Available()),
	})
}

func availability(ok bool) string {
	if ok {
		return "ok"
	}
	return "unavailable"
}

func outcomeName(kind service.OutcomeKind) string {
	switch kind {
	case service.OutcomeSuccess:
		return "success"
	case service.OutcomeInvalidInput:
		return "invalid_input"
	case service.OutcomeUnavailable:
		return "unavailable"
	default:
		return "failure"
	}
}

// bindPredict decodes by Content-Type, treating a missing header as JSON
func bindPredict(c *gin.Context, req *models.PredictRequest) error {
	if c.ContentType() == "" {
		return c.ShouldBindJSON(req)
	}
	return c.ShouldBind(req)
}

func isFormPost(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	return false
}
