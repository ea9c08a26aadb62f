// Package chat wraps the Slack Web API client behind small methods so the
// rest of the service depends on interfaces instead of the concrete client.
package chat

import (
	"context"
	"net/http"
	"time"

	"github.com/slack-go/slack"
)

const apiBase = "https://slack.com/api/"

type Client struct {
	api   *slack.Client
	token string
	httpc *http.Client
	base  string
}

func New(token string) *Client {
	return &Client{
		api:   slack.New(token),
		token: token,
		httpc: &http.Client{Timeout: 30 * time.Second},
		base:  apiBase,
	}
}

func (c *Client) PostMessage(ctx context.Context, channel string, blocks []slack.Block, fallback string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	return ts, err
}

func (c *Client) UpdateMessage(ctx context.Context, channel, ts string, blocks []slack.Block, fallback string) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channel, ts,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	return err
}

func (c *Client) PostEphemeral(ctx context.Context, channel, user string, blocks []slack.Block, fallback string) error {
	_, err := c.api.PostEphemeralContext(ctx, channel, user,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	return err
}

func (c *Client) PostEphemeralText(ctx context.Context, channel, user, text string) error {
	_, err := c.api.PostEphemeralContext(ctx, channel, user,
		slack.MsgOptionText(text, false))
	return err
}

func (c *Client) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	_, err := c.api.OpenViewContext(ctx, triggerID, view)
	return err
}

func (c *Client) UpdateView(ctx context.Context, view slack.ModalViewRequest, viewID string) error {
	_, err := c.api.UpdateViewContext(ctx, view, "", "", viewID)
	return err
}
