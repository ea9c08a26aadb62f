package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

// The client library dropped the legacy "steps from apps" endpoints, but
// Slack still serves them for existing apps, so these methods call the Web
// API directly.

const vtWorkflowStep slack.ViewType = "workflow_step"

// WorkflowStepInput is one saved input of a configured workflow step.
type WorkflowStepInput struct {
	Value string `json:"value"`
}

// WorkflowStepInputs is the step configuration keyed by input name.
type WorkflowStepInputs map[string]WorkflowStepInput

// OpenWorkflowStepView opens the step configuration view: a views.open with
// the workflow_step view type and no title.
func (c *Client) OpenWorkflowStepView(ctx context.Context, triggerID string, blocks []slack.Block) error {
	view := slack.ModalViewRequest{
		Type:   vtWorkflowStep,
		Blocks: slack.Blocks{BlockSet: blocks},
	}
	_, err := c.api.OpenViewContext(ctx, triggerID, view)
	return err
}

// SaveWorkflowStepConfiguration stores the step's inputs and display name.
func (c *Client) SaveWorkflowStepConfiguration(ctx context.Context, editID, stepName string, inputs WorkflowStepInputs) error {
	return c.callWorkflows(ctx, "workflows.updateStep", map[string]any{
		"workflow_step_edit_id": editID,
		"step_name":             stepName,
		"inputs":                inputs,
	})
}

func (c *Client) WorkflowStepCompleted(ctx context.Context, executeID string) error {
	return c.callWorkflows(ctx, "workflows.stepCompleted", map[string]any{
		"workflow_step_execute_id": executeID,
	})
}

func (c *Client) WorkflowStepFailed(ctx context.Context, executeID, message string) error {
	return c.callWorkflows(ctx, "workflows.stepFailed", map[string]any{
		"workflow_step_execute_id": executeID,
		"error":                    map[string]string{"message": message},
	})
}

func (c *Client) callWorkflows(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var sr slack.SlackResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if !sr.Ok {
		return fmt.Errorf("%s: %s", method, sr.Error)
	}
	return nil
}
