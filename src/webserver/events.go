package webserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Event serves the Events API endpoint: the URL verification handshake and
// workflow step executions.
func (h *Slack) Event(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var envelope struct {
		Type      string          `json:"type"`
		Challenge string          `json:"challenge"`
		Event     json.RawMessage `json:"event"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	switch envelope.Type {
	case "url_verification":
		c.String(http.StatusOK, envelope.Challenge)

	case "event_callback":
		c.Status(http.StatusOK)
		var step workflowStepExecuteEvent
		if err := json.Unmarshal(envelope.Event, &step); err != nil {
			return
		}
		if step.Type == "workflow_step_execute" && step.CallbackID == workflowCallbackID {
			go h.executeWorkflowStep(&step)
		}

	default:
		c.Status(http.StatusOK)
	}
}
