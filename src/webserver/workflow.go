package webserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/dinopoll/dinopoll/src/chat"
	"github.com/dinopoll/dinopoll/src/render"
	"github.com/dinopoll/dinopoll/src/types"
	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
)

// workflowEditID digs the step edit id out of a raw view_submission payload.
// The interaction struct no longer carries the legacy workflow_step object.
func workflowEditID(payload []byte) string {
	var ws struct {
		WorkflowStep struct {
			WorkflowStepEditID string `json:"workflow_step_edit_id"`
		} `json:"workflow_step"`
	}
	if err := json.Unmarshal(payload, &ws); err != nil {
		return ""
	}
	return ws.WorkflowStep.WorkflowStepEditID
}

// handleWorkflowEdit opens the step configuration view when a workflow
// builder adds or edits the create-poll step.
func (h *Slack) handleWorkflowEdit(c *gin.Context, cb slack.InteractionCallback) {
	c.Status(http.StatusOK)

	if cb.CallbackID != workflowCallbackID {
		return
	}
	triggerID := cb.TriggerID
	go func() {
		err := h.client.OpenWorkflowStepView(context.Background(), triggerID, render.WorkflowStepBlocks())
		if err != nil {
			log.Printf("slack: open workflow config view: %v", err)
		}
	}()
}

// handleWorkflowSave validates the configuration view submission and stores
// the step inputs with Slack, named after the poll it will create.
func (h *Slack) handleWorkflowSave(c *gin.Context, cb slack.InteractionCallback, editID string) {
	anonymous, multipleVotes, othersCanAdd := selectedFlags(cb.View)
	title := stateValue(cb.View, "title", "title")
	channel := selectedChannel(cb.View)
	opts := optionValues(cb.View)

	if len(opts) < 2 && !othersCanAdd {
		respondErrors(c, gin.H{"option1": minOptionsError})
		return
	}

	c.Status(http.StatusOK)

	names := make([]string, 0, len(opts))
	for _, opt := range opts {
		names = append(names, opt.Value)
	}
	inputs := chat.WorkflowStepInputs{
		"title":         {Value: title},
		"channel":       {Value: channel},
		"anonymous":     {Value: strconv.FormatBool(anonymous)},
		"multipleVotes": {Value: strconv.FormatBool(multipleVotes)},
		"othersCanAdd":  {Value: strconv.FormatBool(othersCanAdd)},
		"options":       {Value: strings.Join(names, "\n")},
	}
	stepName := fmt.Sprintf("Create a poll: %q", title)

	go func() {
		if err := h.client.SaveWorkflowStepConfiguration(context.Background(), editID, stepName, inputs); err != nil {
			log.Printf("slack: save workflow config: %v", err)
		}
	}()
}

// workflowStepExecuteEvent is the Events API payload for a workflow step run.
// The events package has no mapping for this legacy event type, so it is
// decoded by hand.
type workflowStepExecuteEvent struct {
	Type         string `json:"type"`
	CallbackID   string `json:"callback_id"`
	WorkflowStep struct {
		WorkflowStepExecuteID string                  `json:"workflow_step_execute_id"`
		Inputs                chat.WorkflowStepInputs `json:"inputs"`
	} `json:"workflow_step"`
}

// executeWorkflowStep creates a poll from the saved step inputs and reports
// the outcome back to the workflow runtime. Workflow polls have no creator.
func (h *Slack) executeWorkflowStep(ev *workflowStepExecuteEvent) {
	executeID := ev.WorkflowStep.WorkflowStepExecuteID
	inputs := ev.WorkflowStep.Inputs
	if len(inputs) == 0 {
		h.failWorkflowStep(executeID, "step has no saved configuration")
		return
	}

	p := &types.Poll{
		Title:         inputs["title"].Value,
		Channel:       inputs["channel"].Value,
		Anonymous:     inputs["anonymous"].Value == "true",
		MultipleVotes: inputs["multipleVotes"].Value == "true",
		OthersCanAdd:  inputs["othersCanAdd"].Value == "true",
		Open:          true,
	}
	for _, name := range strings.Split(inputs["options"].Value, "\n") {
		if name = strings.TrimSpace(name); name != "" {
			p.Options = append(p.Options, types.PollOption{Name: name})
		}
	}

	if _, err := h.svc.Create(context.Background(), p); err != nil {
		log.Printf("slack: workflow create poll: %v", err)
		h.failWorkflowStep(executeID, "something went wrong creating the poll")
		return
	}
	if err := h.client.WorkflowStepCompleted(context.Background(), executeID); err != nil {
		log.Printf("slack: complete workflow step: %v", err)
	}
}

func (h *Slack) failWorkflowStep(executeID, message string) {
	if err := h.client.WorkflowStepFailed(context.Background(), executeID, message); err != nil {
		log.Printf("slack: fail workflow step: %v", err)
	}
}
