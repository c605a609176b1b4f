package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yolearn/internal/logging"
	"yolearn/internal/orchestrator"
)

// APIHandler serves orchestrator turns over HTTP.
type APIHandler struct {
	orch   *orchestrator.Orchestrator
	logger logging.Logger
}

// NewAPIHandler creates the handler set around a configured orchestrator.
func NewAPIHandler(orch *orchestrator.Orchestrator, logger logging.Logger) *APIHandler {
	return &APIHandler{orch: orch, logger: logging.OrNop(logger)}
}

type orchestrateRequest struct {
	Message string `json:"message"`
}

// HandleRoot returns the service banner.
func (h *APIHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "YoLearn Orchestrator is running 🚀"})
}

// HandleHealth reports liveness.
func (h *APIHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleOrchestrate runs one turn. The message comes from the `message`
// query parameter or, failing that, from the JSON body. Turn failures are
// encoded in the result status, so the HTTP status is 200 for any message
// that reaches the pipeline.
func (h *APIHandler) HandleOrchestrate(c *gin.Context) {
	message := strings.TrimSpace(c.Query("message"))
	if message == "" {
		var req orchestrateRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			message = strings.TrimSpace(req.Message)
		}
	}
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	result := h.orch.RunTurn(c.Request.Context(), message)
	h.logger.Info("turn finished: status=%s tool=%s fallback=%v", result.Status, result.ToolName, result.FallbackUsed)
	c.JSON(http.StatusOK, result)
}
